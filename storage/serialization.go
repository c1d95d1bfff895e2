// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/internmatch/core"
)

// vectorMUS serializes embedding vectors as length-prefixed raw float32s.
var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// EmbeddingEntryMUS is the MUS serializer for core.EmbeddingEntry.
// The schema is a single small struct, so it is composed by hand from
// mus-go primitives. Timestamps travel as unix microseconds.
var EmbeddingEntryMUS = embeddingEntryMUS{}

var _ mus.Serializer[core.EmbeddingEntry] = EmbeddingEntryMUS

type embeddingEntryMUS struct{}

func (embeddingEntryMUS) Marshal(e core.EmbeddingEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.ItemID, bs)
	n += varint.Uint64.Marshal(uint64(e.Fingerprint), bs[n:])
	n += ord.String.Marshal(e.Model, bs[n:])
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	n += varint.Int64.Marshal(e.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (embeddingEntryMUS) Unmarshal(bs []byte) (e core.EmbeddingEntry, n int, err error) {
	var n1 int
	e.ItemID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var fingerprint uint64
	fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Fingerprint = core.ID(fingerprint)
	e.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	e.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (embeddingEntryMUS) Size(e core.EmbeddingEntry) (size int) {
	size = ord.String.Size(e.ItemID)
	size += varint.Uint64.Size(uint64(e.Fingerprint))
	size += ord.String.Size(e.Model)
	size += vectorMUS.Size(e.Vector)
	size += varint.Int64.Size(e.InsertedAt.UnixMicro())
	return size
}

func (embeddingEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalEmbeddingEntry serializes an EmbeddingEntry to bytes.
func MarshalEmbeddingEntry(entry *core.EmbeddingEntry) []byte {
	buf := make([]byte, EmbeddingEntryMUS.Size(*entry))
	EmbeddingEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalEmbeddingEntry deserializes an EmbeddingEntry from bytes.
// Decode failures are wrapped in ErrSerializationFailed.
func UnmarshalEmbeddingEntry(data []byte) (*core.EmbeddingEntry, error) {
	entry, _, err := EmbeddingEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}
