package ffmpeg

/*
 * FFmpeg wrapper
 *
 * No libraries are used, because none of them provide
 * the necessary functional. Just direct bash call.
 */

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// CheckFFmpeg checks availability of "ffmpeg"
// and "ffprobe" executables.
func CheckFFmpeg() error {
	c1 := exec.Command("ffmpeg", "-version")
	c2 := exec.Command("ffprobe", "-version")

	if err := c1.Run(); err != nil {
		return errors.New(`can't find ffmpeg executable (ran "ffmpeg -version")`)
	}

	if err := c2.Run(); err != nil {
		return errors.New(`can't find ffprobe executable (ran "ffprobe -version")`)
	}

	return nil
}

// GetMeta extracts metadata parameter.
func GetMeta(file string, par string) (string, error) {
	cmd := exec.Command(
		"ffprobe",            //						call ffprobe
		"-loglevel", "error", //						set loglevel
		"-show_entries", "format="+par, // 				set parameter to write
		"-of", "default=noprint_wrappers=1:nokey=1", //	write only the result (without key)
		file, //										target file
	)

	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.Trim(string(stdout), "\n"), nil
}

// GetDuration reads container duration in seconds.
func GetDuration(file string) (float64, error) {
	s, err := GetMeta(file, "duration")
	if err != nil {
		return 0, err
	}

	dur, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	return dur, nil
}

// Extract re-encodes the [start, end) sub-range of src into dst.
func Extract(src, dst string, start, end float64, codec string) error {
	cmd := exec.Command(
		"ffmpeg",       //										call converter
		"-hide_banner", //										hide banner
		"-y",           //										force rewriting file
		"-i", src, //											input file
		"-ss", strconv.FormatFloat(start, 'f', -1, 64), //		range start
		"-to", strconv.FormatFloat(end, 'f', -1, 64), //		range end (excluded)
		"-c:v", codec, //										output video codec
		"-c:a", "aac", //										audio codec
		dst, //													output file
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, string(out))
	}

	return nil
}

// Concat concatenates the files listed in listFile
// (concat demuxer format) into dst.
func Concat(listFile, dst, codec string) error {
	cmd := exec.Command(
		"ffmpeg",       //				call converter
		"-hide_banner", //				hide banner
		"-y",           //				force rewriting file
		"-f", "concat", //				concat demuxer input
		"-safe", "0", //				allow absolute paths in list
		"-i", listFile, //				list of inputs
		"-c:v", codec, //				output video codec
		"-c:a", "aac", //				audio codec
		dst, //							output file
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, string(out))
	}

	return nil
}

// WriteConcatFile writes a concat demuxer list for the
// given inputs into dir and returns its path. The caller
// removes the file.
func WriteConcatFile(dir string, inputs []string) (string, error) {
	tmp, err := os.CreateTemp(dir, "concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			os.Remove(tmp.Name())
			return "", err
		}

		// single quotes must be escaped for the demuxer
		escaped := strings.ReplaceAll(abs, "'", `'\''`)

		if _, err := fmt.Fprintf(tmp, "file '%s'\n", escaped); err != nil {
			os.Remove(tmp.Name())
			return "", err
		}
	}

	return tmp.Name(), nil
}
