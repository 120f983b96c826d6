package models

import (
	"sort"
	"time"
)

// Assessment is the qualitative verdict a detector attaches to its confidence score
type Assessment string

const (
	AssessmentSuspicious  Assessment = "Suspicious"
	AssessmentLikelyClean Assessment = "Likely clean"
	AssessmentFailed      Assessment = "Failed"
)

// ExtractionStatus distinguishes "nothing hidden" from "something hidden but unreadable"
type ExtractionStatus string

const (
	StatusDecoded     ExtractionStatus = "decoded"
	StatusNoData      ExtractionStatus = "no_data"
	StatusUndecodable ExtractionStatus = "undecodable"
)

// AnalysisResult contains the outcome of one extraction or detection method
type AnalysisResult struct {
	Method     string                 `json:"method" yaml:"method"`
	Success    bool                   `json:"success" yaml:"success"`
	Message    string                 `json:"message,omitempty" yaml:"message,omitempty"`
	Status     ExtractionStatus       `json:"status,omitempty" yaml:"status,omitempty"`         // extractors only
	Metadata   map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`     // extractors only
	Confidence float64                `json:"confidence" yaml:"confidence"`                     // 0-100, detectors only
	Assessment Assessment             `json:"assessment,omitempty" yaml:"assessment,omitempty"` // detectors only
	Statistics interface{}            `json:"statistics,omitempty" yaml:"statistics,omitempty"` // detectors only
	Error      string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Duration   time.Duration          `json:"duration" yaml:"duration"`
}

// IsDetector reports whether the result was produced by a steganalysis detector
func (r *AnalysisResult) IsDetector() bool {
	return r.Assessment != ""
}

// AnalysisReport aggregates the results of every requested method for one image
type AnalysisReport struct {
	Filename         string                     `json:"filename,omitempty" yaml:"filename,omitempty"`
	FileType         string                     `json:"fileType,omitempty" yaml:"fileType,omitempty"`
	SHA256           string                     `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	Width            int                        `json:"width" yaml:"width"`
	Height           int                        `json:"height" yaml:"height"`
	Results          map[string]*AnalysisResult `json:"results" yaml:"results"`
	Error            string                     `json:"error,omitempty" yaml:"error,omitempty"`
	AnalysisTime     time.Time                  `json:"analysisTime" yaml:"analysisTime"`
	AnalysisDuration time.Duration              `json:"analysisDuration" yaml:"analysisDuration"`
}

// NewAnalysisReport creates an empty report stamped with the current time
func NewAnalysisReport(filename string) *AnalysisReport {
	return &AnalysisReport{
		Filename:     filename,
		Results:      make(map[string]*AnalysisResult),
		AnalysisTime: time.Now(),
	}
}

// MethodNames returns the method names in the report in sorted order
func (r *AnalysisReport) MethodNames() []string {
	names := make([]string, 0, len(r.Results))
	for name := range r.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuspiciousMethods returns the detectors that assessed the image as suspicious
func (r *AnalysisReport) SuspiciousMethods() []string {
	var names []string
	for _, name := range r.MethodNames() {
		if r.Results[name].Assessment == AssessmentSuspicious {
			names = append(names, name)
		}
	}
	return names
}

// MaxConfidence returns the highest detector confidence in the report
func (r *AnalysisReport) MaxConfidence() (string, float64) {
	best, score := "", 0.0
	for _, name := range r.MethodNames() {
		res := r.Results[name]
		if res.IsDetector() && res.Success && res.Confidence > score {
			best, score = name, res.Confidence
		}
	}
	return best, score
}

// Failed returns the methods that could not complete
func (r *AnalysisReport) Failed() []string {
	var names []string
	for _, name := range r.MethodNames() {
		if !r.Results[name].Success {
			names = append(names, name)
		}
	}
	return names
}

// EmbedResult contains the results of an embedding attempt
type EmbedResult struct {
	Success     bool   `json:"success" yaml:"success"`
	Method      string `json:"method" yaml:"method"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	BitsUsed    int    `json:"bits_used,omitempty" yaml:"bits_used,omitempty"`
	Capacity    int    `json:"capacity,omitempty" yaml:"capacity,omitempty"` // -1 means unbounded
	MetadataKey string `json:"metadata_key,omitempty" yaml:"metadata_key,omitempty"`
	Output      string `json:"output,omitempty" yaml:"output,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}
