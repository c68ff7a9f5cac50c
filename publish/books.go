// Copyright 2025 Zintix Labs
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

package publish

import (
	"bufio"
	"encoding/json"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/reelmath/errs"
)

// Codec books 檔的壓縮方式
type Codec uint8

const (
	CodecGzip Codec = iota
	CodecZstd
	CodecNone
)

func (c Codec) Ext() string {
	switch c {
	case CodecGzip:
		return ".gz"
	case CodecZstd:
		return ".zst"
	default:
		return ""
	}
}

// CodecByPath 依副檔名判斷壓縮方式
func CodecByPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CodecGzip
	case ".zst", ".zstd":
		return CodecZstd
	default:
		return CodecNone
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecGzip:
		return gzip.NewWriterLevel(w, gzip.BestSpeed)
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nopWriteCloser{w}, nil
	}
}

func decompressReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	default:
		return io.NopCloser(r), nil
	}
}

// WriteBooks 每一本 book 寫成一行 JSON，回傳寫入本數。
func WriteBooks[T any](path string, c Codec, books iter.Seq[T]) (n int, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, errs.Wrap(err, "create dir for "+path)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, errs.Wrap(err, "create "+path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errs.Wrap(cerr, "close "+path)
		}
	}()

	bw := bufio.NewWriterSize(f, 1<<20)
	cw, err := compressWriter(bw, c)
	if err != nil {
		return 0, errs.Wrap(err, "init compressor")
	}
	enc := json.NewEncoder(cw)
	for b := range books {
		if err := enc.Encode(b); err != nil {
			cw.Close()
			return n, errs.Wrap(err, "encode book")
		}
		n++
	}
	if err := cw.Close(); err != nil {
		return n, errs.Wrap(err, "close compressor")
	}
	if err := bw.Flush(); err != nil {
		return n, errs.Wrap(err, "flush "+path)
	}
	return n, nil
}

// ReadBooks 讀回 books 檔，以 book 的 id 建索引，內容保持原始 JSON。
func ReadBooks(path string) (map[int]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "open books")
	}
	defer f.Close()
	r, err := decompressReader(bufio.NewReader(f), CodecByPath(path))
	if err != nil {
		return nil, errs.Wrap(err, "init decompressor")
	}
	defer r.Close()

	out := make(map[int]json.RawMessage)
	dec := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, errs.Wrap(err, "decode book")
		}
		var head struct {
			ID *int `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.ID == nil {
			return nil, errs.Warnf("book without id: %.64s", raw)
		}
		out[*head.ID] = raw
	}
}
