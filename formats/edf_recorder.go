//
// Copyright (c) 2013 Jake Brukhman/Octopus. All rights reserved.
//
package formats

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/OpenPSG/edf"
	"github.com/jbrukh/brainbrush/device"
	"github.com/jbrukh/brainbrush/repo"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

const (
	// duration of one EDF data record
	RecordDuration = time.Second

	DigitalMin = -32768
	DigitalMax = 32767

	// largest data record EDF allows, in bytes
	maxRecordBytes = 61440
)

// ----------------------------------------------------------------- //
// EDF Recorder
// ----------------------------------------------------------------- //

// EDFRecorder writes device frames to an EDF file in a
// repository. Samples are written in one second data records;
// a trailing partial record is dropped on Stop.
type EDFRecorder struct {
	sync.Mutex
	repo      *repo.Repository
	patientID string
	physMin   float64
	physMax   float64
	id        string
	file      *os.File
	w         *edf.Writer
	channels  int
	perRecord int
	pending   [][]float64
	records   int
	clipped   int
}

func NewEDFRecorder(r *repo.Repository, patientID string, physMin, physMax float64) *EDFRecorder {
	return &EDFRecorder{
		repo:      r,
		patientID: patientID,
		physMin:   physMin,
		physMax:   physMax,
	}
}

func (r *EDFRecorder) Init(info *device.DeviceInfo) (err error) {
	r.Lock()
	defer r.Unlock()

	if info == nil || info.Channels < 1 || info.SampleRate < 1 {
		return fmt.Errorf("cannot record device: %+v", info)
	}
	if !(r.physMin < r.physMax) {
		return fmt.Errorf("bad physical range [%v, %v]", r.physMin, r.physMax)
	}
	perRecord := info.SampleRate * int(RecordDuration/time.Second)
	if info.Channels*perRecord*2 > maxRecordBytes {
		return fmt.Errorf("%d channels at %d Hz do not fit an EDF record", info.Channels, info.SampleRate)
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          r.patientID,
		RecordingID:        "EEG " + info.Type,
		StartTime:          time.Now(),
		DataRecordDuration: RecordDuration,
		SignalCount:        info.Channels,
	}
	for c := 0; c < info.Channels; c++ {
		hdr.Signals = append(hdr.Signals, edf.SignalHeader{
			Label:             info.Label(c),
			TransducerType:    "EEG electrode",
			PhysicalDimension: "uV",
			PhysicalMin:       r.physMin,
			PhysicalMax:       r.physMax,
			DigitalMin:        DigitalMin,
			DigitalMax:        DigitalMax,
			SamplesPerRecord:  perRecord,
		})
	}

	var fp string
	r.id, fp = r.repo.NewResourceId(repo.ExtRecording)
	if r.file, err = os.Create(fp); err != nil {
		return err
	}
	if r.w, err = edf.Create(r.file, hdr); err != nil {
		r.rollback()
		return err
	}

	r.channels = info.Channels
	r.perRecord = perRecord
	r.pending = make([][]float64, info.Channels)
	r.records = 0
	r.clipped = 0
	slog.Info("edf: recording", "id", r.id, "channels", r.channels, "sample_rate", info.SampleRate)
	return nil
}

// Process each incoming frame, writing every completed record.
func (r *EDFRecorder) RecordFrame(df device.DataFrame) error {
	if df == nil || df.Buffer() == nil {
		return nil
	}
	r.Lock()
	defer r.Unlock()
	if r.w == nil {
		return fmt.Errorf("recorder is not initialized")
	}

	b := df.Buffer()
	if b.Channels() != r.channels {
		return fmt.Errorf("frame has %d channels, recording has %d", b.Channels(), r.channels)
	}
	for c, values := range b.Arrays() {
		for _, v := range values {
			r.pending[c] = append(r.pending[c], r.clip(v))
		}
	}

	for len(r.pending[0]) >= r.perRecord {
		record := make([][]float64, r.channels)
		for c := range record {
			record[c] = r.pending[c][:r.perRecord]
		}
		if err := r.w.WriteRecord(record); err != nil {
			return err
		}
		for c := range r.pending {
			r.pending[c] = append([]float64(nil), r.pending[c][r.perRecord:]...)
		}
		r.records++
	}
	return nil
}

// Finalize the file and return its resource id.
func (r *EDFRecorder) Stop() (id string, err error) {
	r.Lock()
	defer r.Unlock()
	if r.w == nil {
		return "", fmt.Errorf("recorder is not initialized")
	}
	defer func() {
		r.w, r.file = nil, nil
	}()

	if err = r.w.Close(); err != nil {
		r.rollback()
		return "", err
	}
	if err = r.file.Close(); err != nil {
		return "", err
	}
	if r.clipped > 0 {
		slog.Warn("edf: samples clipped to physical range", "id", r.id, "count", r.clipped)
	}
	slog.Info("edf: recording closed", "id", r.id, "records", r.records, "dropped", len(r.pending[0]))
	return r.id, nil
}

func (r *EDFRecorder) clip(v float64) float64 {
	if v < r.physMin || v > r.physMax || math.IsNaN(v) {
		r.clipped++
		if v > r.physMax {
			return r.physMax
		}
		return r.physMin
	}
	return v
}

func (r *EDFRecorder) rollback() {
	name := r.file.Name()
	slog.Warn("edf: rolling back recording", "file", name)
	r.file.Close()
	if err := os.Remove(name); err != nil {
		slog.Error("edf: could not remove the file", "file", name, "error", err)
	}
}
