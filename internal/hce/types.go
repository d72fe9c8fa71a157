// Package hce defines the clinical data model consumed by the report
// renderer. Every type here is produced by the store (or an offline bundle
// file) and treated as read-only by the layout engine.
package hce

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPatientNotFound is returned when the requested patient does not exist.
// It is the only condition that aborts a render before any page is produced.
var ErrPatientNotFound = errors.New("paciente no encontrado")

// Institution identifies the health-care provider on the cover page,
// footers and document metadata. Populated from configuration.
type Institution struct {
	Name             string `yaml:"name" json:"name"`
	NIT              string `yaml:"nit" json:"nit"`
	HabilitationCode string `yaml:"habilitationCode" json:"habilitationCode"`
	Address          string `yaml:"address" json:"address"`
	City             string `yaml:"city" json:"city"`
	Phone            string `yaml:"phone" json:"phone"`
	Email            string `yaml:"email" json:"email"`
}

// Clinician is the authoring professional attached to a clinical record.
// Optional on every record; a nil Clinician renders as "N/A".
type Clinician struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Specialty      string    `json:"specialty,omitempty"`
	MedicalLicense string    `json:"medicalLicense,omitempty"`
}

// EmergencyContact is one entry of the patient's emergency contact list.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Patient carries the demographic, biometric and insurance attributes used
// by the cover page and the identification section.
type Patient struct {
	ID             uuid.UUID  `json:"id"`
	DocumentType   string     `json:"documentType"`
	DocumentID     string     `json:"documentId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Sex            string     `json:"sex,omitempty"`
	MaritalStatus  string     `json:"maritalStatus,omitempty"`
	BloodType      string     `json:"bloodType,omitempty"`
	EducationLevel string     `json:"educationLevel,omitempty"`
	Occupation     string     `json:"occupation,omitempty"`

	// SGSSS affiliation.
	EPS             string `json:"eps,omitempty"`
	Regimen         string `json:"regimen,omitempty"`
	AffiliationType string `json:"affiliationType,omitempty"`

	// Location and contact.
	Address      string `json:"address,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	Department   string `json:"department,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`

	// Baseline biometrics recorded on the chart itself.
	WeightKG *float64 `json:"weightKg,omitempty"`
	HeightCM *float64 `json:"heightCm,omitempty"`

	Allergies          string `json:"allergies,omitempty"`
	ChronicDiseases    string `json:"chronicDiseases,omitempty"`
	SurgicalHistory    string `json:"surgicalHistory,omitempty"`
	CurrentMedications string `json:"currentMedications,omitempty"`

	EmergencyContacts []EmergencyContact `json:"emergencyContacts,omitempty"`
}

// FullName joins first and last name, trimming when either is empty.
func (p Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Evolution is a SOAP-format progress note. The four text fields may embed
// machine-readable fragments ("REVISIÓN POR SISTEMAS: {...}") that the
// formatter reflows before display.
type Evolution struct {
	ID         uuid.UUID  `json:"id"`
	Date       time.Time  `json:"date"`
	Clinician  *Clinician `json:"clinician,omitempty"`
	Subjective string     `json:"subjective,omitempty"`
	Objective  string     `json:"objective,omitempty"`
	Analysis   string     `json:"analysis,omitempty"`
	Plan       string     `json:"plan,omitempty"`

	// SignatureImage, when present, is the PNG bytes of the digital
	// signature stamp. Corrupt data degrades to the signed-text badge.
	SignatureImage []byte     `json:"signatureImage,omitempty"`
	Signed         bool       `json:"signed"`
	SignedAt       *time.Time `json:"signedAt,omitempty"`
}

// VitalSign is one row of the vitals table. All measurements are optional;
// derived values (BMI, ideal weight) are computed only when their inputs are
// present.
type VitalSign struct {
	Date        time.Time  `json:"date"`
	RecordedBy  *Clinician `json:"recordedBy,omitempty"`
	SystolicBP  *int       `json:"systolicBp,omitempty"`
	DiastolicBP *int       `json:"diastolicBp,omitempty"`
	HeartRate   *int       `json:"heartRate,omitempty"`
	RespRate    *int       `json:"respRate,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	SpO2        *float64   `json:"spo2,omitempty"`
	Glasgow     *int       `json:"glasgow,omitempty"`
	PainScale   *int       `json:"painScale,omitempty"`
	WeightKG    *float64   `json:"weightKg,omitempty"`
	HeightCM    *float64   `json:"heightCm,omitempty"`
}

// Diagnosis is a coded (CIE-10/CIE-11) diagnosis entry.
type Diagnosis struct {
	Date         time.Time  `json:"date"`
	Code         string     `json:"code,omitempty"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type,omitempty"`   // Principal, Relacionado, ...
	Status       string     `json:"status,omitempty"` // Activo, Resuelto, ...
	Observations string     `json:"observations,omitempty"`
	Clinician    *Clinician `json:"clinician,omitempty"`
}

// Alert is a clinical safety alert (allergy, contraindication, ...).
type Alert struct {
	Date           time.Time  `json:"date"`
	Type           string     `json:"type,omitempty"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description,omitempty"`
	Active         bool       `json:"active"`
	AcknowledgedBy *Clinician `json:"acknowledgedBy,omitempty"`
}

// Medication is one prescribed item inside a prescription.
type Medication struct {
	Name        string `json:"name"`
	Dose        string `json:"dose,omitempty"`
	Route       string `json:"route,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Indications string `json:"indications,omitempty"`
}

// Prescription groups the medications issued during one encounter.
type Prescription struct {
	Date        time.Time    `json:"date"`
	Clinician   *Clinician   `json:"clinician,omitempty"`
	Diagnosis   string       `json:"diagnosis,omitempty"`
	Indications string       `json:"indications,omitempty"`
	Medications []Medication `json:"medications,omitempty"`
}

// MedicalOrder covers general orders, laboratory orders and pending exams.
// The section a given order lands in is decided by the store, not here.
type MedicalOrder struct {
	Date         time.Time  `json:"date"`
	Type         string     `json:"type,omitempty"`
	Description  string     `json:"description,omitempty"`
	Observations string     `json:"observations,omitempty"`
	Status       string     `json:"status,omitempty"` // Completada, Ejecutada, Pendiente
	Clinician    *Clinician `json:"clinician,omitempty"`
}

// LabResult is a paraclinical exam with its reported value.
type LabResult struct {
	Date   time.Time `json:"date"`
	Name   string    `json:"name"`
	Result string    `json:"result,omitempty"`
}

// Procedure is a non-surgical procedure record (CUPS coded).
type Procedure struct {
	Date        time.Time  `json:"date"`
	Name        string     `json:"name,omitempty"`
	CUPSCode    string     `json:"cupsCode,omitempty"`
	Status      string     `json:"status,omitempty"`
	Description string     `json:"description,omitempty"`
	Findings    string     `json:"findings,omitempty"`
	Clinician   *Clinician `json:"clinician,omitempty"`
}

// Surgery is a surgical procedure card. The optional narrative fields grow
// the card height, which the renderer's height estimator accounts for.
type Surgery struct {
	Date            time.Time  `json:"date"`
	Name            string     `json:"name,omitempty"`
	CUPSCode        string     `json:"cupsCode,omitempty"`
	DiagnosisCode   string     `json:"diagnosisCode,omitempty"`
	Indication      string     `json:"indication,omitempty"`
	Status          string     `json:"status,omitempty"` // Completado, Programado, Cancelado
	Priority        string     `json:"priority,omitempty"`
	Type            string     `json:"type,omitempty"`
	AnesthesiaType  string     `json:"anesthesiaType,omitempty"`
	ASAClass        string     `json:"asaClass,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	OperatingRoom   string     `json:"operatingRoom,omitempty"`
	Technique       string     `json:"technique,omitempty"`
	Findings        string     `json:"findings,omitempty"`
	Complications   string     `json:"complications,omitempty"`
	Results         string     `json:"results,omitempty"`
	Surgeon         *Clinician `json:"surgeon,omitempty"`
	Anesthesiologist *Clinician `json:"anesthesiologist,omitempty"`
	SignedBy        *Clinician `json:"signedBy,omitempty"`
	SignedAt        *time.Time `json:"signedAt,omitempty"`
}

// Referral is an interconsulta: a specialty consult request.
type Referral struct {
	RequestedAt time.Time  `json:"requestedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	Specialty   string     `json:"specialty,omitempty"`
	Motive      string     `json:"motive,omitempty"`
	Status      string     `json:"status,omitempty"`
	RequestedBy *Clinician `json:"requestedBy,omitempty"`
	Specialist  *Clinician `json:"specialist,omitempty"`
}

// NursingNote is a timestamped note from nursing staff.
type NursingNote struct {
	Date    time.Time  `json:"date"`
	Nurse   *Clinician `json:"nurse,omitempty"`
	Type    string     `json:"type,omitempty"`
	Content string     `json:"content,omitempty"`
}

// ImagingStudy is a radiology/imaging order with its report when available.
type ImagingStudy struct {
	RequestedAt        time.Time  `json:"requestedAt"`
	Type               string     `json:"type,omitempty"`
	BodyRegion         string     `json:"bodyRegion,omitempty"`
	ClinicalIndication string     `json:"clinicalIndication,omitempty"`
	Findings           string     `json:"findings,omitempty"`
	Conclusion         string     `json:"conclusion,omitempty"`
	Status             string     `json:"status,omitempty"`
	RequestedBy        *Clinician `json:"requestedBy,omitempty"`
}

// EmergencyVisit is a triaged emergency attention record.
type EmergencyVisit struct {
	ArrivedAt        time.Time  `json:"arrivedAt"`
	TriageCategory   string     `json:"triageCategory,omitempty"` // Rojo..Azul (Manchester)
	Priority         string     `json:"priority,omitempty"`
	Motive           string     `json:"motive,omitempty"`
	Vitals           *VitalSign `json:"vitals,omitempty"`
	InitialDiagnosis string     `json:"initialDiagnosis,omitempty"`
	Treatment        string     `json:"treatment,omitempty"`
	Disposition      string     `json:"disposition,omitempty"`
	Physician        *Clinician `json:"physician,omitempty"`
	Nurse            *Clinician `json:"nurse,omitempty"`
}

// Movement is one intra-hospital transfer inside an admission.
type Movement struct {
	Date   time.Time `json:"date"`
	Type   string    `json:"type,omitempty"`
	Motive string    `json:"motive,omitempty"`
}

// Admission is a hospitalization episode.
type Admission struct {
	AdmittedAt         time.Time  `json:"admittedAt"`
	DischargedAt       *time.Time `json:"dischargedAt,omitempty"`
	Status             string     `json:"status,omitempty"` // Activa, Egresada
	Unit               string     `json:"unit,omitempty"`
	Room               string     `json:"room,omitempty"`
	Bed                string     `json:"bed,omitempty"`
	AdmitMotive        string     `json:"admitMotive,omitempty"`
	AdmitDiagnosis     string     `json:"admitDiagnosis,omitempty"`
	DischargeDiagnosis string     `json:"dischargeDiagnosis,omitempty"`
	Movements          []Movement `json:"movements,omitempty"`
}

// GynecoObstetric is the gyneco-obstetric history summary, rendered only
// when the patient's recorded sex indicates female.
type GynecoObstetric struct {
	Gravidity           *int       `json:"gravidity,omitempty"`
	Parity              *int       `json:"parity,omitempty"`
	Abortions           *int       `json:"abortions,omitempty"`
	CSections           *int       `json:"cSections,omitempty"`
	LastMenstrualPeriod *time.Time `json:"lastMenstrualPeriod,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// History is the structured antecedent record. List-valued categories are
// comma-joined into a single line each by the renderer.
type History struct {
	Pathological    []string         `json:"pathological,omitempty"`
	Surgical        []string         `json:"surgical,omitempty"`
	Allergic        []string         `json:"allergic,omitempty"`
	Familial        []string         `json:"familial,omitempty"`
	Pharmacological []string         `json:"pharmacological,omitempty"`
	GynecoObstetric *GynecoObstetric `json:"gynecoObstetric,omitempty"`
}

// Empty reports whether the history carries nothing worth a section.
func (h *History) Empty() bool {
	if h == nil {
		return true
	}
	return len(h.Pathological) == 0 && len(h.Surgical) == 0 &&
		len(h.Allergic) == 0 && len(h.Familial) == 0 &&
		len(h.Pharmacological) == 0 && h.GynecoObstetric == nil
}

// DateRange is the optional inclusive filter applied by the aggregator.
// From is truncated to start-of-day and To extended to end-of-day before
// querying; the cover page prints the literal range when present.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Chart is the aggregate the layout engine consumes: the patient, document
// metadata, and one pre-filtered, time-descending list per category.
type Chart struct {
	Patient     Patient     `json:"patient"`
	Institution Institution `json:"institution"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Range       *DateRange  `json:"range,omitempty"`

	Diagnoses     []Diagnosis      `json:"diagnoses,omitempty"`
	Alerts        []Alert          `json:"alerts,omitempty"`
	Evolutions    []Evolution      `json:"evolutions,omitempty"`
	Vitals        []VitalSign      `json:"vitals,omitempty"`
	History       *History         `json:"history,omitempty"`
	LabResults    []LabResult      `json:"labResults,omitempty"`
	Prescriptions []Prescription   `json:"prescriptions,omitempty"`
	PendingExams  []MedicalOrder   `json:"pendingExams,omitempty"`
	Orders        []MedicalOrder   `json:"orders,omitempty"`
	Procedures    []Procedure      `json:"procedures,omitempty"`
	Surgeries     []Surgery        `json:"surgeries,omitempty"`
	Referrals     []Referral       `json:"referrals,omitempty"`
	NursingNotes  []NursingNote    `json:"nursingNotes,omitempty"`
	LabOrders     []MedicalOrder   `json:"labOrders,omitempty"`
	Imaging       []ImagingStudy   `json:"imaging,omitempty"`
	Emergencies   []EmergencyVisit `json:"emergencies,omitempty"`
	Admissions    []Admission      `json:"admissions,omitempty"`
}

// Counts summarizes the chart per category without rendering anything.
// Served by the counts endpoint and printed in the statistics section.
type Counts struct {
	Diagnoses     int `json:"diagnosticos"`
	ActiveAlerts  int `json:"alertasActivas"`
	Evolutions    int `json:"evoluciones"`
	Vitals        int `json:"signosVitales"`
	LabResults    int `json:"paraclinicos"`
	Prescriptions int `json:"prescripciones"`
	PendingExams  int `json:"examenesPendientes"`
	Orders        int `json:"ordenesMedicas"`
	Procedures    int `json:"procedimientos"`
	Surgeries     int `json:"cirugias"`
	Referrals     int `json:"interconsultas"`
	NursingNotes  int `json:"notasEnfermeria"`
	LabOrders     int `json:"laboratorios"`
	Imaging       int `json:"imagenologia"`
	Emergencies   int `json:"urgencias"`
	Admissions    int `json:"hospitalizaciones"`
}

// Total sums every category of the counts.
func (c Counts) Total() int {
	return c.Diagnoses + c.ActiveAlerts + c.Evolutions + c.Vitals +
		c.LabResults + c.Prescriptions + c.PendingExams + c.Orders +
		c.Procedures + c.Surgeries + c.Referrals + c.NursingNotes +
		c.LabOrders + c.Imaging + c.Emergencies + c.Admissions
}

// CountsOf derives the per-category counts from an assembled chart.
func CountsOf(ch *Chart) Counts {
	active := 0
	for _, a := range ch.Alerts {
		if a.Active {
			active++
		}
	}
	return Counts{
		Diagnoses:     len(ch.Diagnoses),
		ActiveAlerts:  active,
		Evolutions:    len(ch.Evolutions),
		Vitals:        len(ch.Vitals),
		LabResults:    len(ch.LabResults),
		Prescriptions: len(ch.Prescriptions),
		PendingExams:  len(ch.PendingExams),
		Orders:        len(ch.Orders),
		Procedures:    len(ch.Procedures),
		Surgeries:     len(ch.Surgeries),
		Referrals:     len(ch.Referrals),
		NursingNotes:  len(ch.NursingNotes),
		LabOrders:     len(ch.LabOrders),
		Imaging:       len(ch.Imaging),
		Emergencies:   len(ch.Emergencies),
		Admissions:    len(ch.Admissions),
	}
}

// FemaleSex reports whether the recorded sex indicates female, gating the
// gyneco-obstetric summary.
func FemaleSex(sex string) bool {
	switch sex {
	case "F", "f", "Femenino", "femenino", "Mujer", "mujer", "Female", "female":
		return true
	}
	return false
}
