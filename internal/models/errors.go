package models

import "errors"

var (
	ErrNoSources         = errors.New("no sources requested")
	ErrUnsupportedSource = errors.New("unsupported site")
	ErrAcquisition       = errors.New("acquisition failed")
	ErrEmptyContent      = errors.New("empty content")
	ErrReduction         = errors.New("reduction failed")
)

// User-visible texts placed into results instead of errors.
const (
	UnsupportedSite        = "Unsupported site"
	NoValidContent         = "No valid content"
	NoValidContentProvided = "No valid content provided"
	NoValidContentScraped  = "No valid content scraped"
	TooShortToSummarize    = "Too short to summarize"
	NoDataForKeyword       = "No data found for this keyword"
)
