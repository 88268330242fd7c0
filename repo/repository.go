//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package repo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

// max number of times to try to
// generate a resource id on clash
const maxGenerateRetries = 10

// a resource file name starts with its id
var resourceRegex = regexp.MustCompile("^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}")

// resource kinds, by file extension
const (
	ExtRecording = ".edf"
	ExtSummary   = ".msgpack"
)

// subdirectories
var ValidSubdirs = []string{
	"local",
	"cache",
}

// the default subdir, where all
// data goes first or by default
var DefaultSubdir = ValidSubdirs[0]

// ----------------------------------------------------------------- //
// Repository
// ----------------------------------------------------------------- //

// A Repository is the local store of session artifacts: EEG
// recordings and session summaries. Each is a file addressed
// by a unique resource id, named <id><ext>.
//
// A Repository in the base directory has a small number of
// subdirectories for logical grouping. By default, all files
// are stored in the 'local' subdirectory. Files can be moved
// to 'cache' for backup.
type Repository struct {
	basedir    string
	searchPath []string
}

// Create a new Repository. Will return an error
// if all the requisite directories could not be
// created.
func NewRepository(basedir string) (r *Repository, err error) {
	r = &Repository{
		basedir: basedir,
	}

	// create all the subdirs, and the base directory with them
	for _, subdir := range ValidSubdirs {
		subdirPath := r.subdirPath(subdir)
		if err = os.MkdirAll(subdirPath, 0755); err != nil {
			return nil, err
		}
		r.searchPath = append(r.searchPath, subdirPath)
	}
	return
}

// Return the base directory of the repository.
func (r *Repository) Basedir() string {
	return r.basedir
}

// Generate a new id for a resource with the given extension
// in the default subdir.
func (r *Repository) NewResourceId(ext string) (resourceId, resourcePath string) {
	return r.NewResourceIdWithSubdir(DefaultSubdir, ext)
}

// Generate a new id within a specified subdir.
func (r *Repository) NewResourceIdWithSubdir(subdir, ext string) (resourceId, resourcePath string) {
	if !isValidSubdir(subdir) {
		panic(fmt.Sprintf("bad subdir: %s", subdir))
	}

	for i := 1; i <= maxGenerateRetries; i++ {
		id := uuid.NewString()
		fp := r.resourcePath(subdir, id+ext)
		if _, err := r.Lookup(id); err != nil {
			return id, fp
		}
	}
	panic("could not generate a unique resourceId, nothing to be done")
}

// Look up a resource by its resource id. The search path
// will be checked.
func (r *Repository) Lookup(resourceId string) (resourcePath string, err error) {
	for _, dir := range r.searchPath {
		matches, err := filepath.Glob(filepath.Join(dir, resourceId+"*"))
		if err != nil {
			return "", err
		}
		for _, fp := range matches {
			if idOf(filepath.Base(fp)) == resourceId {
				return fp, nil
			}
		}
	}
	return "", fmt.Errorf("no such resource in search path: %v", resourceId)
}

// Move a file into the cache subdir for backup.
func (r *Repository) Cache(resourceId string) (err error) {
	return r.Move(resourceId, "cache")
}

// Move a resource to another subdir.
func (r *Repository) Move(resourceId, subdir string) (err error) {
	pth, err := r.Lookup(resourceId)
	if err != nil {
		return err
	}

	newPath := filepath.Join(r.subdirPath(subdir), filepath.Base(pth))
	if newPath == pth {
		return
	}
	return os.Rename(pth, newPath)
}

// List will list all the resources in the default subdir.
func (r *Repository) List() (infos []os.FileInfo, err error) {
	return r.list(DefaultSubdir)
}

// List will list all the resources in the cache.
func (r *Repository) ListCache() (infos []os.FileInfo, err error) {
	return r.list("cache")
}

// Remove all the resources in a subdir.
func (r *Repository) Clear(subdir string) (err error) {
	return r.forEach(subdir, func(path string, f os.FileInfo) error {
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("repo: failed to remove resource", "path", path, "error", err)
		}
		return nil
	})
}

// ----------------------------------------------------------------- //
// Summaries
// ----------------------------------------------------------------- //

// Write v as a msgpack summary resource and return its id.
func (r *Repository) WriteSummary(v interface{}) (resourceId string, err error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("could not encode summary: %w", err)
	}
	id, fp := r.NewResourceId(ExtSummary)
	if err = os.WriteFile(fp, data, 0644); err != nil {
		return "", err
	}
	slog.Info("repo: wrote summary", "id", id, "bytes", len(data))
	return id, nil
}

// Read the summary resource with the given id into v.
func (r *Repository) ReadSummary(resourceId string, v interface{}) error {
	fp, err := r.Lookup(resourceId)
	if err != nil {
		return err
	}
	if filepath.Ext(fp) != ExtSummary {
		return fmt.Errorf("resource %s is not a summary", resourceId)
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, v)
}

// ----------------------------------------------------------------- //
// Private Repo Operations
// ----------------------------------------------------------------- //

// List all the resources in a subdirectory.
func (r *Repository) list(subdir string) (infos []os.FileInfo, err error) {
	err = r.forEach(subdir, func(path string, f os.FileInfo) error {
		infos = append(infos, f)
		return nil
	})
	return infos, err
}

// Perform an operation for each resource in a subdir.
func (r *Repository) forEach(subdir string, op func(path string, f os.FileInfo) error) (err error) {
	root := r.subdirPath(subdir)
	return filepath.Walk(root, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !f.IsDir() && idOf(f.Name()) != "" {
			return op(path, f)
		}
		return nil
	})
}

// ----------------------------------------------------------------- //
// Private Methods
// ----------------------------------------------------------------- //

// quick validity test
func isValidSubdir(subdir string) bool {
	for _, validSubdir := range ValidSubdirs {
		if subdir == validSubdir {
			return true
		}
	}
	return false
}

// The resource id of a file name, or "" if it is not a resource.
func idOf(name string) string {
	id := resourceRegex.FindString(name)
	if id == "" || !(len(name) == len(id) || strings.HasPrefix(name[len(id):], ".")) {
		return ""
	}
	return id
}

// Returns the full path of a subdir.
func (r *Repository) subdirPath(subdir string) string {
	if !isValidSubdir(subdir) {
		panic(fmt.Sprintf("bad subdir: %s", subdir))
	}
	return filepath.Join(r.basedir, subdir)
}

// Returns the full path of a resource file, given the subdir.
func (r *Repository) resourcePath(subdir, name string) string {
	return filepath.Join(r.subdirPath(subdir), name)
}
