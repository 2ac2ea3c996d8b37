package Solver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"Loopless/DistanceMatrix"
)

// Wire format, one request per process:
//
//	request:  N
//	          d(0,0) d(0,1) ... d(0,N-1)
//	          ...
//	response: <total meters>
//	          <i0> <i1> ... <iN-1>
const (
	// DefaultMaxDistance keeps every cell, and any 15-leg sum of cells, inside int32.
	DefaultMaxDistance int64 = 100_000_000

	MaxWaypoints = 15
)

var ErrMalformedOutput = errors.New("malformed solver output")

// Tour is what a solver reports: the visiting order over matrix indices and its total length.
type Tour struct {
	TotalMeters float64
	Order       []int
}

// ClampDistance rounds meters to an integer and bounds it to [0, maxDistance].
func ClampDistance(meters float64, maxDistance int64) int64 {
	if math.IsNaN(meters) || meters <= 0 {
		return 0
	}
	rounded := math.Round(meters)
	if rounded >= float64(maxDistance) {
		return maxDistance
	}
	return int64(rounded)
}

// EncodeRequest writes the matrix in the solver's input format.
func EncodeRequest(w io.Writer, matrix DistanceMatrix.Matrix, maxDistance int64) error {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	n := matrix.Size()

	var buf bytes.Buffer
	buf.WriteString(strconv.Itoa(n))
	buf.WriteByte('\n')
	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d cells, want %d", i, len(row), n)
		}
		for j, meters := range row {
			if j > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strconv.FormatInt(ClampDistance(meters, maxDistance), 10))
		}
		buf.WriteByte('\n')
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// DecodeRequest reads a request as written by EncodeRequest. A second token on the
// first line (the start node some solvers accept) is ignored.
func DecodeRequest(r io.Reader) (DistanceMatrix.Matrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	headerLine, rest, _ := strings.Cut(string(data), "\n")
	header := strings.Fields(headerLine)
	if len(header) == 0 || len(header) > 2 {
		return nil, fmt.Errorf("bad header line %q", headerLine)
	}
	n, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("bad waypoint count %q: %w", header[0], err)
	}
	if n < 1 || n > MaxWaypoints {
		return nil, fmt.Errorf("waypoint count %d out of range 1..%d", n, MaxWaypoints)
	}

	cells := strings.Fields(rest)
	if len(cells) < n*n {
		return nil, fmt.Errorf("request has %d cells, want %d", len(cells), n*n)
	}

	matrix := make(DistanceMatrix.Matrix, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			value, err := strconv.ParseInt(cells[i*n+j], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad distance at (%d,%d): %w", i, j, err)
			}
			if value < 0 {
				return nil, fmt.Errorf("negative distance at (%d,%d)", i, j)
			}
			matrix[i][j] = float64(value)
		}
	}
	return matrix, nil
}

// ParseResponse parses solver stdout. Exactly two non-blank lines are accepted; anything
// else is ErrMalformedOutput. The order is not checked against the request here.
func ParseResponse(stdout []byte) (Tour, error) {
	var lines []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		return Tour{}, fmt.Errorf("%w: got %d lines, want 2", ErrMalformedOutput, len(lines))
	}

	total, err := strconv.ParseFloat(lines[0], 64)
	if err != nil {
		return Tour{}, fmt.Errorf("%w: total %q: %v", ErrMalformedOutput, lines[0], err)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return Tour{}, fmt.Errorf("%w: total %q out of range", ErrMalformedOutput, lines[0])
	}

	fields := strings.Fields(lines[1])
	order := make([]int, len(fields))
	for i, field := range fields {
		if order[i], err = strconv.Atoi(field); err != nil {
			return Tour{}, fmt.Errorf("%w: index %q: %v", ErrMalformedOutput, field, err)
		}
	}

	return Tour{TotalMeters: total, Order: order}, nil
}

// EncodeResponse writes a tour in the solver's output format.
func EncodeResponse(w io.Writer, tour Tour) error {
	parts := make([]string, len(tour.Order))
	for i, idx := range tour.Order {
		parts[i] = strconv.Itoa(idx)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", strconv.FormatFloat(tour.TotalMeters, 'f', -1, 64), strings.Join(parts, " "))
	return err
}
