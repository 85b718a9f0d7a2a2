// Package gateway dispatches log viewer HTTP requests: it serves
// pre-rendered log files, renders the search page and the channel
// listing, and collapses every failure into a uniform plain-text 404.
package gateway

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/hlog"

	"github.com/seanblong/irclogd/internal/metrics"
	"github.com/seanblong/irclogd/internal/resolver"
	"github.com/seanblong/irclogd/internal/search"
)

// CSSName is the reserved filename of the built-in stylesheet.
const CSSName = "irclog.css"

// Options carries the serving configuration. It is built once from the
// loaded configuration and passed by value; handlers never consult
// ambient process state.
type Options struct {
	LogDir  string // flat log directory, used when ChanDir is empty
	ChanDir string // per-channel root; non-empty enables channel scoping
	CSSFile string // on-disk location of the built-in stylesheet
}

// Gateway is the http.Handler for the whole log site.
type Gateway struct {
	opts   Options
	engine *search.Engine
}

func New(opts Options) *Gateway {
	return &Gateway{opts: opts, engine: search.New()}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scoped := g.opts.ChanDir != ""
	target := resolver.Resolve(r.URL.Path, scoped)
	if target.File == "" {
		g.notFound(w)
		return
	}

	// The directory all filesystem lookups are rooted in. The resolver
	// has already rejected anything that could escape it.
	dir := g.opts.LogDir
	if scoped {
		dir = g.opts.ChanDir
		if target.Channel != "" {
			dir = filepath.Join(g.opts.ChanDir, target.Channel)
		}
	}

	switch {
	case target.File == resolver.SearchPage:
		g.serveSearch(w, r, dir, target.Channel)
	case scoped && target.Channel == "" && target.File == resolver.IndexFile:
		g.serveListing(w, r)
	case target.File == CSSName:
		g.serveBuiltinCSS(w, r)
	default:
		g.serveFile(w, r, dir, target)
	}
}

// serveFile serves target.File out of dir verbatim. The extension
// decides the content type; extensions outside the table are never
// served, whether or not the file exists.
func (g *Gateway) serveFile(w http.ResponseWriter, r *http.Request, dir string, target resolver.Target) {
	var ctype string
	switch filepath.Ext(target.File) {
	case ".log":
		ctype = "text/plain; charset=UTF-8"
	case ".html":
		ctype = "text/html; charset=UTF-8"
	case ".css":
		ctype = "text/css"
	default:
		g.notFound(w)
		return
	}

	body, err := os.ReadFile(filepath.Join(dir, target.File))
	if err != nil {
		if target.File == resolver.IndexFile {
			g.redirectToSearch(w, target.Channel)
			return
		}
		g.notFound(w)
		return
	}

	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("file", target.File).Msg("write aborted")
	}
	metrics.RequestsTotal.WithLabelValues("200").Inc()
}

func (g *Gateway) serveBuiltinCSS(w http.ResponseWriter, r *http.Request) {
	body, err := os.ReadFile(g.opts.CSSFile)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("css_file", g.opts.CSSFile).Msg("built-in stylesheet missing")
		g.notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/css")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	metrics.RequestsTotal.WithLabelValues("200").Inc()
}

func (g *Gateway) serveSearch(w http.ResponseWriter, r *http.Request, dir, channel string) {
	data := searchData{Query: r.URL.Query().Get("q")}
	if r.URL.Query().Has("q") {
		start := time.Now()
		data.Result = g.engine.Search(dir, data.Query)
		elapsed := time.Since(start)
		data.Searched = true
		data.Elapsed = fmt.Sprintf("%.1f seconds", elapsed.Seconds())
		data.Files = groupByFile(data.Result.Matches)
		metrics.SearchesTotal.Inc()
		metrics.SearchDuration.Observe(elapsed.Seconds())
		hlog.FromRequest(r).Info().
			Str("q", data.Query).
			Str("channel", channel).
			Int("matches", data.Result.TotalMatches).
			Int("files", data.Result.FilesSearched).
			Dur("dur", elapsed).
			Msg("search")
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := searchTmpl.Execute(w, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render search page")
	}
	metrics.RequestsTotal.WithLabelValues("200").Inc()
}

// serveListing renders an index of channel subdirectories. Plain files
// inside the channel root are not channels and are skipped.
func (g *Gateway) serveListing(w http.ResponseWriter, r *http.Request) {
	names, err := godirwalk.ReadDirnames(g.opts.ChanDir, nil)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("chan_dir", g.opts.ChanDir).Msg("channel root unreadable")
		g.notFound(w)
		return
	}
	sort.Strings(names)

	var channels []channelLink
	for _, name := range names {
		fi, err := os.Stat(filepath.Join(g.opts.ChanDir, name))
		if err != nil || !fi.IsDir() {
			continue
		}
		channels = append(channels, channelLink{
			Name: name,
			Href: url.PathEscape(name) + "/",
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := listingTmpl.Execute(w, channels); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render channel listing")
	}
	metrics.RequestsTotal.WithLabelValues("200").Inc()
}

func (g *Gateway) redirectToSearch(w http.ResponseWriter, channel string) {
	loc := "/search"
	if channel != "" {
		loc = "/" + url.PathEscape(channel) + "/search"
	}
	w.Header().Set("Location", loc)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusFound)
	_, _ = io.WriteString(w, "Try /search")
	metrics.RequestsTotal.WithLabelValues("302").Inc()
}

// notFound answers every failure mode the same way, so a traversal
// attempt is indistinguishable from a plain missing file.
func (g *Gateway) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "Not found")
	metrics.RequestsTotal.WithLabelValues("404").Inc()
}
