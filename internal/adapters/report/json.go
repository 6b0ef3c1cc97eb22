package report

import (
	"encoding/json"
	"io"

	"go.trai.ch/zerr"
)

type jsonSummary struct {
	Code     string      `json:"code"`
	OK       bool        `json:"ok"`
	Stages   []jsonStage `json:"stages"`
	Manifest Manifest    `json:"manifest"`
}

type jsonStage struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMS int64  `json:"durationMs"`
}

// EncodeSummary writes s as a single JSON document, for scripts driving the build.
func EncodeSummary(w io.Writer, s Summary) error {
	out := jsonSummary{
		Code:     s.Code.String(),
		OK:       s.Code.IsOK(),
		Stages:   make([]jsonStage, 0, len(s.Stages)),
		Manifest: NewManifest(s),
	}
	for _, st := range s.Stages {
		out.Stages = append(out.Stages, jsonStage{
			Name:       st.Name,
			Status:     string(st.Status),
			DurationMS: st.Duration.Milliseconds(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return zerr.Wrap(err, "failed to encode build summary")
	}
	return nil
}
