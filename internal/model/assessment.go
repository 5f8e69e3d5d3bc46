package model

import "time"

// Assessment is one stored assessment run: the responses that were scored and
// the Results they produced.
type Assessment struct {
	ID           string      `json:"id"`
	Organization string      `json:"organization"`
	Regulation   string      `json:"regulation"`
	Industry     string      `json:"industry"`
	Responses    ResponseSet `json:"responses"`
	Results      Results     `json:"results"`
	CreatedAt    time.Time   `json:"created_at"`
}
