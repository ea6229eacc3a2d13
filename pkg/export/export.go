// Package export serializes solved model output for downstream analysis.
// Arrays are written in long form, one row per element, so the CSVs load
// directly into dataframe tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/minigrid/core/solution"
	"github.com/kilianp07/minigrid/core/tensor"
)

// WriteCSV writes one labeled array to w: a header row with the dimension
// names and a value column, then one row per element.
func WriteCSV(w io.Writer, a *tensor.Array) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, a.Dims()...), "value")
	if err := cw.Write(header); err != nil {
		return err
	}
	shape := a.Shape()
	idx := make([]int, len(shape))
	rec := make([]string, len(shape)+1)
	for _, v := range a.Data() {
		for d, i := range idx {
			rec[d] = strconv.Itoa(i)
		}
		rec[len(shape)] = strconv.FormatFloat(v, 'f', -1, 64)
		if err := cw.Write(rec); err != nil {
			return err
		}
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonArray struct {
	Dims  []string  `json:"dims"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// WriteJSON writes the whole solution to w as a single JSON object keyed by
// array name.
func WriteJSON(w io.Writer, sol *solution.Solution) error {
	out := make(map[string]jsonArray)
	for _, name := range sol.Names() {
		a, _ := sol.Get(name)
		out[name] = jsonArray{Dims: a.Dims(), Shape: a.Shape(), Data: a.Data()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteDir writes one CSV per array into dir, plus a solution.json with the
// full output. The directory is created if needed.
func WriteDir(dir string, sol *solution.Solution) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range sol.Names() {
		a, _ := sol.Get(name)
		path := filepath.Join(dir, fileName(name))
		if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, a) }); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	path := filepath.Join(dir, "solution.json")
	if err := writeFile(path, func(w io.Writer) error { return WriteJSON(w, sol) }); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	return s + ".csv"
}
