package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"
)

// Form field names sent by the mobile client.
const (
	FieldSupervisor   = "supervisor"
	FieldActivity     = "actividad"
	FieldDate         = "fecha"
	FieldProject      = "proyecto"
	FieldTasks        = "tareas"
	FieldDifficulties = "dificultades"
	FieldTechnicians  = "tecnicos"
	FieldAttendance   = "asistencia"
	FieldPhotos       = "fotos"
)

const dateFormat = "2006-01-02"

// ErrMalformedField indicates a form field that could not be parsed.
var ErrMalformedField = errors.New("malformed form field")

// ParseSubmission materializes a ReportSubmission from a multipart form.
// Photo parts are read fully into memory, in the order they were sent.
// The provided time is used when the fecha field is absent.
func ParseSubmission(form *multipart.Form, now time.Time) (ReportSubmission, error) {
	sub := ReportSubmission{
		Supervisor:   formValue(form, FieldSupervisor),
		Activity:     formValue(form, FieldActivity),
		Project:      formValue(form, FieldProject),
		Tasks:        formValue(form, FieldTasks),
		Difficulties: formValue(form, FieldDifficulties),
	}

	date, err := resolveDate(formValue(form, FieldDate), now)
	if err != nil {
		return ReportSubmission{}, err
	}
	sub.Date = date

	if sub.Technicians, err = parseListField(form, FieldTechnicians); err != nil {
		return ReportSubmission{}, err
	}
	if sub.Attendance, err = parseListField(form, FieldAttendance); err != nil {
		return ReportSubmission{}, err
	}

	for _, header := range form.File[FieldPhotos] {
		photo, err := readPhoto(header)
		if err != nil {
			return ReportSubmission{}, err
		}
		sub.Photos = append(sub.Photos, photo)
	}

	return sub, nil
}

// resolveDate truncates an ISO timestamp to its calendar day, defaulting to
// the current day when no value was sent.
func resolveDate(raw string, now time.Time) (string, error) {
	if raw == "" {
		return now.UTC().Format(dateFormat), nil
	}
	if len(raw) > 10 {
		raw = raw[:10]
	}
	if _, err := time.Parse(dateFormat, raw); err != nil {
		return "", fmt.Errorf("%w: %s is not a date: %v", ErrMalformedField, FieldDate, err)
	}
	return raw, nil
}

func parseListField(form *multipart.Form, key string) ([]string, error) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("%w: %s is required as JSON array text", ErrMalformedField, key)
	}

	var list []string
	if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON string array: %v", ErrMalformedField, key, err)
	}
	return list, nil
}

func readPhoto(header *multipart.FileHeader) (Photo, error) {
	file, err := header.Open()
	if err != nil {
		return Photo{}, fmt.Errorf("open photo %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Photo{}, fmt.Errorf("read photo %s: %w", header.Filename, err)
	}

	return Photo{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}
