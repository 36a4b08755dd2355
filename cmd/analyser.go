/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Analysis struct {
	results [][]string
	summary string
}

type AnalyserConfig struct {
	// Number of results to return, default is all results.
	NumToReturn int

	// Only return results with more plays than this. Default is all results.
	FilterThreshold int64
}

// Analyser renders one view of a loaded session.
type Analyser interface {
	GetResults(s *Session) (Analysis, error)

	GetName() string
}

// printer formats summary counts with thousands separators.
var printer = message.NewPrinter(language.English)

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 0 {
		if err := renderTable(out, a.results); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	fmt.Fprintf(out, "%s\n", a.summary)
	return out.String()
}

// renderTable writes results as a table; the first row is the header.
func renderTable(out io.Writer, results [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(results[0])
	for _, row := range results[1:] {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// runAnalyser loads a session from the configured snapshot and prints the
// analyser's table.
func runAnalyser(out io.Writer, a Analyser, args []string) error {
	s, err := newSession(args)
	if err != nil {
		return err
	}
	result, err := a.GetResults(s)
	if err != nil {
		return fmt.Errorf("%s: %w", a.GetName(), err)
	}
	fmt.Fprintln(out, result)
	return nil
}

func formatMinutes(v float64) string {
	return printer.Sprintf("%.1f", v)
}

func formatFeature(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
