// Package search implements the brute-force full-text search over a
// directory of pre-rendered IRC log files.
package search

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"

	"github.com/seanblong/irclogd/pkg/models"
)

// logFilePattern matches date-stamped log files as produced by the log
// formatter, optionally gzip-compressed.
var logFilePattern = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}\.log(\.gz)?$`)

// FileOpener opens a named file for reading. It exists so tests can
// substitute failing readers.
type FileOpener interface {
	Open(name string) (io.ReadCloser, error)
}

type osOpener struct{}

func (osOpener) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// Engine scans log files directly inside a directory for a substring.
type Engine struct {
	Opener FileOpener
}

// New creates an Engine reading from the real filesystem.
func New() *Engine {
	return &Engine{Opener: osOpener{}}
}

// Search scans every log file directly inside root for lines containing
// query. An empty query matches every line, so an empty search reports
// the size of the whole corpus. Files that cannot be read or decoded
// are skipped and do not contribute to any count; Search never fails as
// a whole. Gzip-suffixed files are decompressed transparently.
func (e *Engine) Search(root, query string) models.Result {
	var res models.Result

	dirents, err := godirwalk.ReadDirents(root, nil)
	if err != nil {
		log.Debug().Err(err).Str("dir", root).Msg("log directory unreadable")
		return res
	}
	sort.Slice(dirents, func(i, j int) bool { return dirents[i].Name() < dirents[j].Name() })

	for _, de := range dirents {
		name := de.Name()
		if !de.IsRegular() || !logFilePattern.MatchString(name) {
			continue
		}
		matches, lines, err := e.scanFile(filepath.Join(root, name), query)
		if err != nil {
			log.Debug().Err(err).Str("file", name).Msg("skipping unreadable log file")
			continue
		}
		res.FilesSearched++
		res.TotalLines += lines
		res.TotalMatches += len(matches)
		res.Matches = append(res.Matches, matches...)
	}
	return res
}

func (e *Engine) scanFile(path, query string) (matches []models.Match, lines int, err error) {
	f, err := e.Opener.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, 0, err
		}
		defer zr.Close()
		r = zr
	}

	name := filepath.Base(path)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines++
		line := sc.Text()
		if strings.Contains(line, query) {
			matches = append(matches, models.Match{
				Filename: name,
				LineNo:   lines,
				Text:     line,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return matches, lines, nil
}
