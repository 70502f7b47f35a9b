// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements the persistent frame store of spec §6: an
// append-only sequence of frames, each holding the domain's time,
// step count, merit, any newly-created bodies, every body's and
// constraint's state, and accumulated timer values, readable forward
// or backward through a label index.
package frame

import (
	goio "encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	gio "github.com/cpmech/gosl/io"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/dom"
)

// IOVer is the frame format version; original_source/dio.c's IOVER
// preprocessor gate, here a runtime field so old stores stay readable.
type IOVer int

const (
	// IOVerBase carries R, U, point, base, merit, master/slave ids and
	// kind-specific tail fields, but never a contact's V.
	IOVerBase IOVer = 1
	// IOVerContactVelocity adds a contact's pre-solve relative velocity
	// V (original_source/dio.c: "#if IOVER > 1 ... con->V").
	IOVerContactVelocity IOVer = 2
	// IOVerStateInit is the minimum version state initialisation from
	// an existing store accepts (spec §6: "IO-version ... required to
	// be >= 3 for state initialisation").
	IOVerStateInit IOVer = 3
	// IOVerSpringZ additionally writes/reads a SPRING constraint's Z
	// (original_source/dio.c: "if (iover < 4) { RIGLNK/VELODIR } else
	// { RIGLNK/VELODIR/SPRING }").
	IOVerSpringZ IOVer = 4

	// CurrentIOVer is written by Store.Append for every new frame.
	CurrentIOVer = IOVerSpringZ
)

// Encoder and Decoder mirror gofem fem/fileio.go's two-method
// interfaces, letting Store swap between a lossless gob mode and a
// portable/compressed json mode without touching the frame layout.
type Encoder interface {
	Encode(v interface{}) error
}
type Decoder interface {
	Decode(v interface{}) error
}

// GetEncoder returns a gob encoder unless enctype is "json".
func GetEncoder(w io.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return goio.NewEncoder(w)
}

// GetDecoder returns a gob decoder unless enctype is "json".
func GetDecoder(r io.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return goio.NewDecoder(r)
}

// BodyRecord is one body's packed state within a frame's "bodies" or
// "new bodies" block (spec §6).
type BodyRecord struct {
	ID     int
	Label  string
	Kind   body.Kind
	Dofs   int
	Conf   []float64
	Velo   []float64
	Energy []float64
	Rank   int // origin rank in a parallel run, 0 otherwise
}

// ConRecord is one constraint's packed state (spec §6).
type ConRecord struct {
	ID    int
	Kind  con.Kind
	R, U  [3]float64
	V     [3]float64 // only meaningful, and only written, at IOVer >= 2
	Point [3]float64
	Base  [3][3]float64
	Merit float64

	MasterID int
	SlaveID  int // 0 means no slave

	// Contact-only tail.
	Friction    float64
	Restitution float64
	Cohesion    float64
	Area, Gap   float64
	SurfPair    [2]int

	// RigidLink/Velocity/Spring-only tail (SPRING only at IOVer >= 4).
	Z [7]float64

	Rank int
}

// Frame is one complete append-only record: label "DOM".
type Frame struct {
	Time   float64
	IOVer  IOVer
	Step   int
	Merit  float64
	NewBod []BodyRecord // only non-empty on the step a body was added
	Bods   []BodyRecord
	Cons   []ConRecord
	Timers map[string]float64
}

// entry is the label index record for one appended frame: its byte
// offset in the store file and its time, so Seek/Backward/Forward can
// scan the index instead of decoding every frame in between.
type entry struct {
	Offset int64
	Time   float64
}

// Store is an append-only sequence of frames backed by one file per
// encoding (spec §6; original_source/dio.c's PBF file, simplified to a
// single forward-appended stream plus an in-memory label index rather
// than PBF's true bidirectional disk format, since a Go store can
// rebuild the index by re-opening and decoding once at startup).
type Store struct {
	path    string
	enctype string
	file    *os.File
	index   []entry // readable in reverse: index[len-1] is the latest frame
}

// Create opens (truncating) a new frame store at
// dir/fnkey.frames.<enctype>, enctype defaulting to "gob".
func Create(dir, fnkey, enctype string) (*Store, error) {
	if enctype == "" {
		enctype = "gob"
	}
	fn := path.Join(dir, gio.Sf("%s.frames.%s", fnkey, enctype))
	f, err := os.Create(fn)
	if err != nil {
		return nil, chk.Err("frame: cannot create store %q: %v", fn, err)
	}
	return &Store{path: fn, enctype: enctype, file: f}, nil
}

// Open reopens an existing store for reading (and further appending),
// rebuilding the label index by decoding every frame once.
func Open(dir, fnkey, enctype string) (*Store, error) {
	if enctype == "" {
		enctype = "gob"
	}
	fn := path.Join(dir, gio.Sf("%s.frames.%s", fnkey, enctype))
	f, err := os.OpenFile(fn, os.O_RDWR, 0644)
	if err != nil {
		return nil, chk.Err("frame: cannot open store %q: %v", fn, err)
	}
	s := &Store{path: fn, enctype: enctype, file: f}
	if err := s.rebuildIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) rebuildIndex() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return chk.Err("frame: seek to start failed: %v", err)
	}
	dec := GetDecoder(s.file, s.enctype)
	for {
		offset, err := s.file.Seek(0, io.SeekCurrent)
		if err != nil {
			return chk.Err("frame: tell failed: %v", err)
		}
		var fr Frame
		if err := dec.Decode(&fr); err != nil {
			if err == io.EOF {
				break
			}
			return chk.Err("frame: corrupt store while rebuilding index: %v", err)
		}
		s.index = append(s.index, entry{Offset: offset, Time: fr.Time})
	}
	if _, err := s.file.Seek(0, io.SeekEnd); err != nil {
		return chk.Err("frame: seek to end failed: %v", err)
	}
	return nil
}

// Close flushes and releases the underlying file.
func (s *Store) Close() error { return s.file.Close() }

// Append encodes d's current state as one new frame (spec §4.9 phase
// 8's output trigger calls this), recording newBodies into the NEWBOD
// block; it does not clear the caller's pending set (Session.Emit does).
func (s *Store) Append(d *dom.Domain, newBodies []*body.Body, timers map[string]float64) error {
	offset, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return chk.Err("frame: seek to end failed: %v", err)
	}
	fr := Frame{
		Time:   d.Time,
		IOVer:  CurrentIOVer,
		Step:   d.NSteps,
		Merit:  d.Merit,
		Timers: timers,
	}
	for _, b := range newBodies {
		fr.NewBod = append(fr.NewBod, packBody(b))
	}
	for _, b := range d.Bodies {
		fr.Bods = append(fr.Bods, packBody(b))
	}
	for _, c := range d.Constraints {
		fr.Cons = append(fr.Cons, packCon(d, c))
	}
	enc := GetEncoder(s.file, s.enctype)
	if err := enc.Encode(&fr); err != nil {
		return chk.Err("frame: encode failed: %v", err)
	}
	s.index = append(s.index, entry{Offset: offset, Time: fr.Time})
	return nil
}

func packBody(b *body.Body) BodyRecord {
	return BodyRecord{
		ID: b.ID, Label: b.Label, Kind: b.Kind, Dofs: b.Dofs,
		Conf: append([]float64(nil), b.Conf...), Velo: append([]float64(nil), b.Velo...),
		Energy: append([]float64(nil), b.Energy[:]...),
	}
}

func packCon(d *dom.Domain, c *con.Constraint) ConRecord {
	r := ConRecord{
		ID: c.ID, Kind: c.Kind, R: c.R, U: c.U, V: c.V,
		Point: c.Point, Base: c.Base, Merit: c.Merit,
		SurfPair: c.SurfPair, Friction: c.Friction, Area: c.Area, Gap: c.Gap,
		Z: c.Z,
	}
	if c.Kind == con.Contact {
		key := c.SurfPair
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if mat, ok := d.SurfacePairs[key]; ok {
			r.Restitution = mat.Restitution
			r.Cohesion = mat.Cohesion
		}
	}
	if c.Master != nil {
		r.MasterID = c.Master.ID
	}
	if c.Slave != nil {
		r.SlaveID = c.Slave.ID
	}
	return r
}

// readAt decodes exactly one frame starting at byte offset.
func (s *Store) readAt(offset int64) (Frame, error) {
	if _, err := s.file.Seek(offset, io.SeekStart); err != nil {
		return Frame{}, chk.Err("frame: seek failed: %v", err)
	}
	dec := GetDecoder(s.file, s.enctype)
	var fr Frame
	if err := dec.Decode(&fr); err != nil {
		return Frame{}, chk.Err("frame: decode failed: %v", err)
	}
	return fr, nil
}

// Seek returns the frame whose time is closest to, and not after, t —
// spec §6's "read frame at a given time" — scanning the label index in
// reverse as the spec requires ("frames must be readable in reverse
// by scanning a label index").
func (s *Store) Seek(t float64) (Frame, bool) {
	for i := len(s.index) - 1; i >= 0; i-- {
		if s.index[i].Time <= t {
			fr, err := s.readAt(s.index[i].Offset)
			if err != nil {
				return Frame{}, false
			}
			return fr, true
		}
	}
	return Frame{}, false
}

// Backward returns the frame immediately preceding the one at time t,
// or false if t is already the first frame (SOLFEC_Backward).
func (s *Store) Backward(t float64) (Frame, bool) {
	for i := len(s.index) - 1; i >= 0; i-- {
		if s.index[i].Time < t {
			fr, err := s.readAt(s.index[i].Offset)
			if err != nil {
				return Frame{}, false
			}
			return fr, true
		}
	}
	return Frame{}, false
}

// Forward returns the frame immediately following the one at time t,
// or false if t is already the last frame (SOLFEC_Forward).
func (s *Store) Forward(t float64) (Frame, bool) {
	for _, e := range s.index {
		if e.Time > t {
			fr, err := s.readAt(e.Offset)
			if err != nil {
				return Frame{}, false
			}
			return fr, true
		}
	}
	return Frame{}, false
}

// History extracts one scalar per frame via extract, in time order
// (spec §6's history-extraction read helper), skipping frames with no
// matching body/constraint (extract returns ok=false for those).
func (s *Store) History(extract func(Frame) (value float64, ok bool)) (times, values []float64) {
	for _, e := range s.index {
		fr, err := s.readAt(e.Offset)
		if err != nil {
			continue
		}
		if v, ok := extract(fr); ok {
			times = append(times, fr.Time)
			values = append(values, v)
		}
	}
	return
}
