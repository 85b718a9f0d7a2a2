package models

// Match is a single log line that contained the query.
type Match struct {
	Filename string `json:"filename"`
	LineNo   int    `json:"line_no"`
	Text     string `json:"text"`
}

// Result aggregates one search pass over a log directory. TotalLines
// counts every line read, matching or not, so the summary can report
// corpus size alongside hit counts.
type Result struct {
	FilesSearched int     `json:"files_searched"`
	TotalMatches  int     `json:"total_matches"`
	TotalLines    int     `json:"total_lines"`
	Matches       []Match `json:"matches,omitempty"`
}
