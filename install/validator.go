// Package install certifies that a directory is a genuine RefPerSys
// installation. No single artifact is trusted alone: the executable, the
// main header, the license, the generated manifest and the persistent store
// are each checked independently, in a fixed order, and the first failure
// stops the validation.
package install

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/refpersys/rpsfront/binsig"
)

// Error kinds returned by Validate. Every returned error wraps exactly one of them.
var (
	ErrRejected    = errors.New("install: input rejected")
	ErrUnavailable = errors.New("install: resource unavailable")
	ErrInvalid     = errors.New("install: content invalid")
)

// Report describes a successful validation.
type Report struct {
	Path             string
	LicenseMentioned bool // advisory, false only produces a warning
	DataFiles        int  // persisted data files counted in the data directory
	DataEntries      int  // regular files with an alphanumeric first character
}

// Validator checks installation directories against a Layout.
type Validator struct {
	fs     afero.Fs
	layout Layout
}

// Option configures a Validator.
type Option func(*Validator)

// WithFS sets the filesystem the validator inspects. Defaults to the OS filesystem.
func WithFS(fs afero.Fs) Option {
	return func(v *Validator) {
		if fs != nil {
			v.fs = fs
		}
	}
}

// WithLayout overrides the expected artifact names.
func WithLayout(l Layout) Option {
	return func(v *Validator) {
		v.layout = l
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		fs:     afero.NewOsFs(),
		layout: DefaultLayout(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every check against dir and returns a report on success.
// The checks run in a fixed order and the first failure stops the validation:
//  1. dir is an existing directory.
//  2. the executable is a regular, owner-executable file with an ELF64 header.
//  3. the first line of the header file starts with the comment banner.
//  4. the license mentions the GNU licenses URL; this one is advisory and only
//     sets Report.LicenseMentioned.
//  5. the first line of the manifest is the generated-file marker.
//  6. the data directory holds at least one persisted data file.
//
// The returned error wraps ErrRejected, ErrUnavailable or ErrInvalid.
func (v *Validator) Validate(dir string) (*Report, error) {
	// an empty path is rejected before touching the filesystem
	if dir == "" {
		return nil, fmt.Errorf("%w: empty installation path", ErrRejected)
	}
	report := &Report{Path: dir}

	steps := []struct {
		name  string
		check func(dir string, r *Report) error
	}{
		{"directory", v.checkDirectory},
		{"executable", v.checkExecutable},
		{"header", v.checkHeader},
		{"license", v.checkLicense},
		{"manifest", v.checkManifest},
		{"data", v.checkDataDir},
	}
	for _, step := range steps {
		if err := step.check(dir, report); err != nil {
			// later steps are never attempted
			log.Error().Err(err).Str("path", dir).Str("step", step.name).Msg("installation check failed")
			return nil, err
		}
		log.Debug().Str("path", dir).Str("step", step.name).Msg("installation check passed")
	}

	// every step passed, confirm with host and pid
	host, _ := os.Hostname()
	log.Info().
		Str("path", dir).
		Str("host", host).
		Int("pid", os.Getpid()).
		Int("data_files", report.DataFiles).
		Msg("using refpersys installation")
	return report, nil
}

func (v *Validator) checkDirectory(dir string, _ *Report) error {
	fi, err := v.fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", ErrUnavailable, dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalid, dir)
	}
	return nil
}

func (v *Validator) checkExecutable(dir string, _ *Report) error {
	exe := filepath.Join(dir, v.layout.Executable)
	fi, err := v.fs.Stat(exe)
	if err != nil {
		return fmt.Errorf("%w: program %s: %w", ErrUnavailable, exe, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: program %s is not a regular file", ErrInvalid, exe)
	}
	if fi.Mode().Perm()&0o100 == 0 {
		return fmt.Errorf("%w: program %s is not executable", ErrInvalid, exe)
	}
	if err := binsig.Check(v.fs, exe); err != nil {
		if errors.Is(err, binsig.ErrUnreadable) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return fmt.Errorf("%w: program %s: %w", ErrInvalid, exe, err)
	}
	return nil
}

func (v *Validator) checkHeader(dir string, _ *Report) error {
	header := filepath.Join(dir, v.layout.Header)
	line, err := v.firstLine(header)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(line, HeaderBanner) {
		return fmt.Errorf("%w: header %s has bad first line %q", ErrInvalid, header, line)
	}
	return nil
}

func (v *Validator) checkLicense(dir string, r *Report) error {
	license := filepath.Join(dir, v.layout.License)
	f, err := v.fs.Open(license)
	if err != nil {
		return fmt.Errorf("%w: license %s: %w", ErrUnavailable, license, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for n := 0; n < LicenseLineLimit; n++ {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: reading license %s: %w", ErrUnavailable, license, err)
		}
		if strings.Contains(line, LicenseMarker) {
			r.LicenseMentioned = true
			break
		}
	}
	if !r.LicenseMentioned {
		log.Warn().Str("path", license).Str("marker", LicenseMarker).Msg("license file does not mention the expected license")
	}
	return nil
}

func (v *Validator) checkManifest(dir string, _ *Report) error {
	manifest := filepath.Join(dir, v.layout.Manifest)
	line, err := v.firstLine(manifest)
	if err != nil {
		return err
	}
	if line != ManifestMarker {
		return fmt.Errorf("%w: manifest %s has bad first line %q", ErrInvalid, manifest, line)
	}
	return nil
}

func (v *Validator) checkDataDir(dir string, r *Report) error {
	data := filepath.Join(dir, v.layout.DataDir)
	fi, err := v.fs.Stat(data)
	if err != nil {
		return fmt.Errorf("%w: data directory %s: %w", ErrUnavailable, data, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalid, data)
	}
	entries, err := afero.ReadDir(v.fs, data)
	if err != nil {
		return fmt.Errorf("%w: reading data directory %s: %w", ErrUnavailable, data, err)
	}
	for _, e := range entries {
		if !e.Mode().IsRegular() || !startsAlnum(e.Name()) {
			continue
		}
		r.DataEntries++
		if strings.HasSuffix(e.Name(), v.layout.DataExt) {
			r.DataFiles++
		}
	}
	if r.DataFiles == 0 {
		return fmt.Errorf("%w: no %s files in %s (%d entries)", ErrInvalid, v.layout.DataExt, data, r.DataEntries)
	}
	return nil
}

// firstLine returns the first line of path without its line terminator,
// cut to MaxLineLen bytes.
func (v *Validator) firstLine(path string) (string, error) {
	f, err := v.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}
	defer f.Close()

	line, err := readLine(bufio.NewReader(f))
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalid, path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrUnavailable, path, err)
	}
	return strings.TrimSuffix(line, "\r"), nil
}

// readLine returns the next line of br without its terminator. Only the first
// MaxLineLen bytes are kept, the rest of a longer line is skipped. It returns
// io.EOF when no line is left.
func readLine(br *bufio.Reader) (string, error) {
	var buf []byte
	got := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && got {
				return string(buf), nil
			}
			return "", err
		}
		got = true
		if room := MaxLineLen - len(buf); room > 0 {
			buf = append(buf, chunk[:min(room, len(chunk))]...)
		}
		if !isPrefix {
			return string(buf), nil
		}
	}
}

func startsAlnum(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
