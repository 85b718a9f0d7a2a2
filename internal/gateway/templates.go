package gateway

import (
	"html/template"

	"github.com/seanblong/irclogd/pkg/models"
)

type searchData struct {
	Query    string
	Searched bool
	Elapsed  string
	Result   models.Result
	Files    []fileMatches
}

// fileMatches groups the matches of one log file for rendering.
type fileMatches struct {
	Name    string
	Matches []models.Match
}

// groupByFile splits a flat match sequence into per-file groups,
// preserving the engine's ordering.
func groupByFile(matches []models.Match) []fileMatches {
	var files []fileMatches
	for _, m := range matches {
		if len(files) == 0 || files[len(files)-1].Name != m.Filename {
			files = append(files, fileMatches{Name: m.Filename})
		}
		last := &files[len(files)-1]
		last.Matches = append(last.Matches, m)
	}
	return files
}

type channelLink struct {
	Name string
	Href string
}

var searchTmpl = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Search IRC logs</title>
<link rel="stylesheet" href="irclog.css">
</head>
<body>
<h1>Search IRC logs</h1>
<div class="searchbox">
<form action="search" method="get">
<input type="text" name="q" value="{{.Query}}">
<input type="submit" value="Search">
</form>
</div>
{{if .Searched}}<p>{{.Result.TotalMatches}} matches in {{.Result.FilesSearched}} log files with {{.Result.TotalLines}} lines ({{.Elapsed}}).</p>
{{range .Files}}<h2>{{.Name}}</h2>
<ul>
{{range .Matches}}<li>{{.LineNo}}: {{.Text}}</li>
{{end}}</ul>
{{end}}{{end}}</body>
</html>
`))

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>IRC logs</title>
<link rel="stylesheet" href="irclog.css">
</head>
<body>
<h1>IRC logs</h1>
<ul>
{{range .}}<li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
</body>
</html>
`))
