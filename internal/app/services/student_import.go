package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// studentCSVColumns are the recognised header names of an import file
var studentCSVColumns = []string{
	"roll_no", "email", "full_name", "department", "batch",
	"room_number", "hostel_block", "fees_paid", "emergency_contact",
}

// ImportFailure is one row that could not be imported
type ImportFailure struct {
	Line   int
	RollNo string
	Err    error
}

// ImportResult summarizes a student import
type ImportResult struct {
	Created  int
	Failures []ImportFailure
}

// ParseStudentCSV reads a header row followed by student rows. Columns may
// appear in any order; email and full_name are required. roll_no is optional
// and checked against the email when present.
func ParseStudentCSV(r io.Reader) ([]CreateStudentInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"email", "full_name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q (known columns: %s)",
				required, strings.Join(studentCSVColumns, ", "))
		}
	}

	get := func(record []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	optional := func(record []string, column string) *string {
		v := get(record, column)
		if v == "" {
			return nil
		}
		return &v
	}

	var inputs []CreateStudentInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		feesPaid := false
		if raw := get(record, "fees_paid"); raw != "" {
			feesPaid, err = strconv.ParseBool(raw)
			if err != nil {
				line, _ := reader.FieldPos(0)
				return nil, fmt.Errorf("line %d: fees_paid %q is not a boolean", line, raw)
			}
		}

		inputs = append(inputs, CreateStudentInput{
			RollNo:           get(record, "roll_no"),
			Email:            get(record, "email"),
			FullName:         get(record, "full_name"),
			Department:       get(record, "department"),
			Batch:            get(record, "batch"),
			RoomNumber:       optional(record, "room_number"),
			HostelBlock:      optional(record, "hostel_block"),
			FeesPaid:         feesPaid,
			EmergencyContact: optional(record, "emergency_contact"),
		})
	}
	return inputs, nil
}

// Import creates every input, continuing past rows that fail. Line numbers
// in failures count the header as line 1.
func (s *StudentService) Import(ctx context.Context, inputs []CreateStudentInput) ImportResult {
	result := ImportResult{}
	for i, input := range inputs {
		if _, err := s.Create(ctx, input); err != nil {
			result.Failures = append(result.Failures, ImportFailure{Line: i + 2, RollNo: input.RollNo, Err: err})
			continue
		}
		result.Created++
	}
	s.logger.Info().Int("created", result.Created).Int("failed", len(result.Failures)).Msg("Student import finished")
	return result
}
