package media

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

var ErrRangeNotSatisfiable = errors.New("range not satisfiable")

// ByteRange 闭区间 [Start, End]
type ByteRange struct {
	Start int64
	End   int64
}

func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

func (r ByteRange) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

func UnsatisfiedRange(size int64) string { return fmt.Sprintf("bytes */%d", size) }

// RangeError 携带资源大小，便于回写 Content-Range: bytes */size
type RangeError struct {
	Header string
	Size   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range not satisfiable: %q for size %d", e.Header, e.Size)
}

func (e *RangeError) Unwrap() error { return ErrRangeNotSatisfiable }

// ParseRange 只支持单区间：bytes=a-b / bytes=a- / bytes=-n
func ParseRange(header string, size int64) (ByteRange, error) {
	bad := &RangeError{Header: header, Size: size}
	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(spec, ",") || size <= 0 {
		return ByteRange{}, bad
	}
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return ByteRange{}, bad
	}
	startStr, endStr = strings.TrimSpace(startStr), strings.TrimSpace(endStr)

	if startStr == "" {
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return ByteRange{}, bad
		}
		if n > size {
			n = size
		}
		return ByteRange{Start: size - n, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, bad
	}
	end := size - 1
	if endStr != "" {
		if end, err = strconv.ParseInt(endStr, 10, 64); err != nil {
			return ByteRange{}, bad
		}
	}
	if start > end || end >= size {
		return ByteRange{}, bad
	}
	return ByteRange{Start: start, End: end}, nil
}

var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
}

const DefaultContentType = "application/octet-stream"

// ContentTypeFor 忽略 query 与大小写
func ContentTypeFor(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	if ct, ok := contentTypes[strings.ToLower(path.Ext(location))]; ok {
		return ct
	}
	return DefaultContentType
}
