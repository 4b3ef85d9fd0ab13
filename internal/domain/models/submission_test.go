package models

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formPhoto struct {
	name        string
	contentType string
	data        []byte
}

func buildForm(t *testing.T, fields map[string]string, photos []formPhoto) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for _, photo := range photos {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="fotos"; filename="`+photo.name+`"`)
		header.Set("Content-Type", photo.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(photo.data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func validFields() map[string]string {
	return map[string]string{
		FieldSupervisor:   "A. Pérez",
		FieldActivity:     "Inspection",
		FieldDate:         "2024-03-02T00:00:00Z",
		FieldProject:      "Site 4",
		FieldTasks:        "Checked panels",
		FieldDifficulties: "None",
		FieldTechnicians:  `["J. Lopez","M. Ruiz"]`,
		FieldAttendance:   `["J. Lopez"]`,
	}
}

func TestParseSubmission(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

	t.Run("full form with photos", func(t *testing.T) {
		form := buildForm(t, validFields(), []formPhoto{
			{name: "photo1.jpg", contentType: "image/jpeg", data: []byte("first")},
			{name: "photo2.jpg", contentType: "image/jpeg", data: []byte("second")},
		})

		sub, err := ParseSubmission(form, now)
		require.NoError(t, err)

		assert.Equal(t, "A. Pérez", sub.Supervisor)
		assert.Equal(t, "Inspection", sub.Activity)
		assert.Equal(t, "2024-03-02", sub.Date)
		assert.Equal(t, "Site 4", sub.Project)
		assert.Equal(t, "Checked panels", sub.Tasks)
		assert.Equal(t, "None", sub.Difficulties)
		assert.Equal(t, []string{"J. Lopez", "M. Ruiz"}, sub.Technicians)
		assert.Equal(t, []string{"J. Lopez"}, sub.Attendance)

		require.Len(t, sub.Photos, 2)
		assert.Equal(t, "photo1.jpg", sub.Photos[0].Name)
		assert.Equal(t, []byte("first"), sub.Photos[0].Data)
		assert.Equal(t, "image/jpeg", sub.Photos[0].ContentType)
		assert.Equal(t, "photo2.jpg", sub.Photos[1].Name)
		assert.Equal(t, []byte("second"), sub.Photos[1].Data)
	})

	t.Run("missing fecha defaults to current day", func(t *testing.T) {
		fields := validFields()
		delete(fields, FieldDate)
		form := buildForm(t, fields, nil)

		sub, err := ParseSubmission(form, now)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-10", sub.Date)
	})

	t.Run("plain date is kept as-is", func(t *testing.T) {
		fields := validFields()
		fields[FieldDate] = "2024-03-02"
		form := buildForm(t, fields, nil)

		sub, err := ParseSubmission(form, now)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-02", sub.Date)
	})

	t.Run("unparseable fecha fails", func(t *testing.T) {
		fields := validFields()
		fields[FieldDate] = "yesterday"
		form := buildForm(t, fields, nil)

		_, err := ParseSubmission(form, now)
		assert.ErrorIs(t, err, ErrMalformedField)
	})

	t.Run("missing tecnicos fails", func(t *testing.T) {
		fields := validFields()
		delete(fields, FieldTechnicians)
		form := buildForm(t, fields, nil)

		_, err := ParseSubmission(form, now)
		assert.ErrorIs(t, err, ErrMalformedField)
	})

	t.Run("asistencia that is not a JSON array fails", func(t *testing.T) {
		fields := validFields()
		fields[FieldAttendance] = "J. Lopez, M. Ruiz"
		form := buildForm(t, fields, nil)

		_, err := ParseSubmission(form, now)
		assert.ErrorIs(t, err, ErrMalformedField)
	})

	t.Run("empty list fields parse to empty slices", func(t *testing.T) {
		fields := validFields()
		fields[FieldTechnicians] = "[]"
		fields[FieldAttendance] = "[]"
		form := buildForm(t, fields, nil)

		sub, err := ParseSubmission(form, now)
		require.NoError(t, err)
		assert.Empty(t, sub.Technicians)
		assert.Empty(t, sub.Attendance)
	})
}

func TestStoredAssetLocator(t *testing.T) {
	shared := StoredAsset{ID: "abc123", PublicURL: "https://drive.google.com/uc?id=abc123"}
	assert.Equal(t, "https://drive.google.com/uc?id=abc123", shared.Locator())

	private := StoredAsset{ID: "abc123"}
	assert.Equal(t, "abc123", private.Locator())
}
