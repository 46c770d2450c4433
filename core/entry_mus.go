package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// CacheEntryMUS is the MUS serializer for CacheEntry.
// Field order: Text, Hash, Prompt, UpdatedAt (unix micro).
var CacheEntryMUS = cacheEntryMUS{}

type cacheEntryMUS struct{}

func (s cacheEntryMUS) Marshal(v CacheEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += ord.String.Marshal(v.Hash, bs[n:])
	n += ord.String.Marshal(v.Prompt, bs[n:])
	return n + varint.Int64.Marshal(unixMicro(v.UpdatedAt), bs[n:])
}

func (s cacheEntryMUS) Unmarshal(bs []byte) (v CacheEntry, n int, err error) {
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Hash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Prompt, n1, err = ord.String.Unmarshal(bs[n:])
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
	if micros != 0 {
		v.UpdatedAt = time.UnixMicro(micros).UTC()
	}
	return
}

func (s cacheEntryMUS) Size(v CacheEntry) (size int) {
	size = ord.String.Size(v.Text)
	size += ord.String.Size(v.Hash)
	size += ord.String.Size(v.Prompt)
	return size + varint.Int64.Size(unixMicro(v.UpdatedAt))
}

func (s cacheEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// ArtifactPathsMUS is the MUS serializer for ArtifactPaths.
// Field order: Artifact, Meta, Debug.
var ArtifactPathsMUS = artifactPathsMUS{}

type artifactPathsMUS struct{}

func (s artifactPathsMUS) Marshal(v ArtifactPaths, bs []byte) (n int) {
	n = ord.String.Marshal(v.Artifact, bs)
	n += ord.String.Marshal(v.Meta, bs[n:])
	return n + ord.String.Marshal(v.Debug, bs[n:])
}

func (s artifactPathsMUS) Unmarshal(bs []byte) (v ArtifactPaths, n int, err error) {
	v.Artifact, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Meta, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Debug, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s artifactPathsMUS) Size(v ArtifactPaths) (size int) {
	size = ord.String.Size(v.Artifact)
	size += ord.String.Size(v.Meta)
	return size + ord.String.Size(v.Debug)
}

func (s artifactPathsMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func unixMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}
