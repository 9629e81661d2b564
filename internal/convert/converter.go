// Package convert turns SubRip subtitles into WebVTT, one line at a time.
//
// Numeric cue index lines are dropped, timing lines are rewritten to
// HH:MM:SS.mmm (optionally shifted by a millisecond offset, clamped at
// zero) and every other line is copied unchanged. A cue whose text is a
// bare number cannot be told apart from an index line and is dropped too.
package convert

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	vttHeader    = "WEBVTT"
	srtExt       = ".srt"
	vttExt       = ".vtt"
	maxLineBytes = 1 << 20
)

var cueIndexPattern = regexp.MustCompile(`^\d+$`)

// OutputPath returns the WebVTT destination for an SRT path. A trailing
// ".srt" (any case) becomes ".vtt"; any other path gets ".vtt" appended so
// the source is never chosen as its own destination.
func OutputPath(inputPath string) string {
	if strings.EqualFold(filepath.Ext(inputPath), srtExt) {
		return inputPath[:len(inputPath)-len(srtExt)] + vttExt
	}
	return inputPath + vttExt
}

// Convert reads the SRT file at inputPath and writes its WebVTT rendition
// next to it, returning the destination path. The destination is replaced
// only once the whole file converted; on failure an existing destination
// is left as it was.
func Convert(inputPath string, offsetMs int64) (string, error) {
	outputPath := OutputPath(inputPath)

	in, err := os.Open(inputPath)
	if err != nil {
		return "", &IOError{Op: "open", Path: inputPath, Err: err}
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return "", &IOError{Op: "create", Path: outputPath, Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := convertStream(in, tmp, offsetMs, inputPath, outputPath); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", &IOError{Op: "write", Path: outputPath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", &IOError{Op: "chmod", Path: outputPath, Err: err}
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", &IOError{Op: "rename", Path: outputPath, Err: err}
	}
	committed = true

	return outputPath, nil
}

// ConvertReader streams SRT from r to WebVTT on w.
func ConvertReader(r io.Reader, w io.Writer, offsetMs int64) error {
	return convertStream(r, w, offsetMs, "", "")
}

func convertStream(r io.Reader, w io.Writer, offsetMs int64, srcPath, dstPath string) error {
	// A BOM switches decoding to the matching UTF-8/UTF-16 form; input
	// without one passes through byte for byte.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	out := bufio.NewWriter(w)
	writeLine := func(line string) error {
		if _, err := out.WriteString(line); err != nil {
			return &IOError{Op: "write", Path: dstPath, Err: err}
		}
		if err := out.WriteByte('\n'); err != nil {
			return &IOError{Op: "write", Path: dstPath, Err: err}
		}
		return nil
	}

	if err := writeLine(vttHeader); err != nil {
		return err
	}
	if err := writeLine(""); err != nil {
		return err
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line, keep, err := convertLine(scanner.Text(), offsetMs)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Line = lineNo
			}
			return err
		}
		if !keep {
			continue
		}
		if err := writeLine(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &IOError{Op: "read", Path: srcPath, Err: err}
	}

	if err := out.Flush(); err != nil {
		return &IOError{Op: "write", Path: dstPath, Err: err}
	}
	return nil
}

// convertLine classifies one input line. keep is false for cue index lines.
func convertLine(line string, offsetMs int64) (string, bool, error) {
	if cueIndexPattern.MatchString(line) {
		return "", false, nil
	}

	m := timingPattern.FindStringSubmatch(line)
	if m == nil {
		return line, true, nil
	}

	start, err := timecodeFromFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return "", false, &FormatError{Text: line, Err: err}
	}
	end, err := timecodeFromFields(m[5], m[6], m[7], m[8])
	if err != nil {
		return "", false, &FormatError{Text: line, Err: err}
	}

	if offsetMs != 0 {
		if start, err = Shift(start, offsetMs); err != nil {
			return "", false, &FormatError{Text: line, Err: err}
		}
		if end, err = Shift(end, offsetMs); err != nil {
			return "", false, &FormatError{Text: line, Err: err}
		}
	}

	return start.String() + " --> " + end.String(), true, nil
}
