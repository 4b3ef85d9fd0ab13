package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo carries one uploaded picture exactly as received in the form.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReportSubmission is the parsed daily report form. It is immutable once
// parsed; the orchestrator only reads from it.
type ReportSubmission struct {
	Supervisor   string
	Activity     string
	Date         string // calendar day, YYYY-MM-DD
	Project      string
	Tasks        string
	Difficulties string
	Technicians  []string
	Attendance   []string
	Photos       []Photo
}

// StoredAsset references a file archived in the remote store.
type StoredAsset struct {
	ID        string
	PublicURL string
}

// Locator returns the reference persisted with the report: the public URL
// when the file was shared, otherwise the bare file id.
func (a StoredAsset) Locator() string {
	if a.PublicURL != "" {
		return a.PublicURL
	}
	return a.ID
}

// ReportRecord is the persisted representation of one submission. Field keys
// match the form vocabulary used by the mobile client.
type ReportRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Supervisor   string             `bson:"supervisor" json:"supervisor"`
	Activity     string             `bson:"actividad" json:"actividad"`
	Date         string             `bson:"fecha" json:"fecha"`
	Project      string             `bson:"proyecto" json:"proyecto"`
	Tasks        string             `bson:"tareas" json:"tareas"`
	Difficulties string             `bson:"dificultades" json:"dificultades"`
	Technicians  []string           `bson:"tecnicos" json:"tecnicos"`
	Attendance   []string           `bson:"asistencia" json:"asistencia"`
	PhotoURLs    []string           `bson:"fotos" json:"fotos"`
	PDFURL       string             `bson:"pdf" json:"pdf"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
