// Package store is the data-aggregator boundary: it loads a patient's full
// clinical history from Postgres, applies the optional date window, and
// shapes the rows into the read-only chart the renderer consumes.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicamia/hcereport/internal/hce"
)

type pacienteRow struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	TipoDocumento       string    `gorm:"column:tipo_documento"`
	NumeroDocumento     string    `gorm:"column:numero_documento"`
	Nombres             string
	Apellidos           string
	FechaNacimiento     *time.Time `gorm:"column:fecha_nacimiento"`
	Sexo                string
	EstadoCivil         string `gorm:"column:estado_civil"`
	GrupoSanguineo      string `gorm:"column:grupo_sanguineo"`
	NivelEducativo      string `gorm:"column:nivel_educativo"`
	Ocupacion           string
	EPS                 string
	Regimen             string
	TipoAfiliacion      string `gorm:"column:tipo_afiliacion"`
	Direccion           string
	Barrio              string
	Ciudad              string
	Departamento        string
	Telefono            string
	Email               string
	Peso                *float64
	Talla               *float64
	Alergias            string
	EnfermedadesCronicas string `gorm:"column:enfermedades_cronicas"`
	AntecedentesQuirurgicos string `gorm:"column:antecedentes_quirurgicos"`
	MedicamentosActuales string `gorm:"column:medicamentos_actuales"`
}

func (pacienteRow) TableName() string { return "pacientes" }

func (r pacienteRow) toDomain() hce.Patient {
	return hce.Patient{
		ID:                 r.ID,
		DocumentType:       r.TipoDocumento,
		DocumentID:         r.NumeroDocumento,
		FirstName:          r.Nombres,
		LastName:           r.Apellidos,
		BirthDate:          r.FechaNacimiento,
		Sex:                r.Sexo,
		MaritalStatus:      r.EstadoCivil,
		BloodType:          r.GrupoSanguineo,
		EducationLevel:     r.NivelEducativo,
		Occupation:         r.Ocupacion,
		EPS:                r.EPS,
		Regimen:            r.Regimen,
		AffiliationType:    r.TipoAfiliacion,
		Address:            r.Direccion,
		Neighborhood:       r.Barrio,
		City:               r.Ciudad,
		Department:         r.Departamento,
		Phone:              r.Telefono,
		Email:              r.Email,
		WeightKG:           r.Peso,
		HeightCM:           r.Talla,
		Allergies:          r.Alergias,
		ChronicDiseases:    r.EnfermedadesCronicas,
		SurgicalHistory:    r.AntecedentesQuirurgicos,
		CurrentMedications: r.MedicamentosActuales,
	}
}

type contactoRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Nombre     string
	Parentesco string
	Telefono   string
}

func (contactoRow) TableName() string { return "contactos_emergencia" }

type profesionalRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombres        string
	Apellidos      string
	Especialidad   string
	RegistroMedico string `gorm:"column:registro_medico"`
}

func (profesionalRow) TableName() string { return "profesionales" }

func (r *profesionalRow) toDomain() *hce.Clinician {
	if r == nil {
		return nil
	}
	return &hce.Clinician{
		ID:             r.ID,
		FirstName:      r.Nombres,
		LastName:       r.Apellidos,
		Specialty:      r.Especialidad,
		MedicalLicense: r.RegistroMedico,
	}
}

type evolucionRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID  uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha       time.Time
	Subjetivo   string
	Objetivo    string
	Analisis    string
	Plan        string
	Firmada     bool
	FechaFirma  *time.Time       `gorm:"column:fecha_firma"`
	FirmaImagen []byte           `gorm:"column:firma_imagen"`
	DoctorID    *uuid.UUID       `gorm:"column:doctor_id;type:uuid"`
	Doctor      *profesionalRow  `gorm:"foreignKey:DoctorID"`
}

func (evolucionRow) TableName() string { return "evoluciones" }

func (r evolucionRow) toDomain() hce.Evolution {
	return hce.Evolution{
		ID:             r.ID,
		Date:           r.Fecha,
		Clinician:      r.Doctor.toDomain(),
		Subjective:     r.Subjetivo,
		Objective:      r.Objetivo,
		Analysis:       r.Analisis,
		Plan:           r.Plan,
		Signed:         r.Firmada,
		SignedAt:       r.FechaFirma,
		SignatureImage: r.FirmaImagen,
	}
}

type signoVitalRow struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID            uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha                 time.Time
	PresionSistolica      *int     `gorm:"column:presion_sistolica"`
	PresionDiastolica     *int     `gorm:"column:presion_diastolica"`
	FrecuenciaCardiaca    *int     `gorm:"column:frecuencia_cardiaca"`
	FrecuenciaRespiratoria *int    `gorm:"column:frecuencia_respiratoria"`
	Temperatura           *float64
	SaturacionOxigeno     *float64 `gorm:"column:saturacion_oxigeno"`
	Glasgow               *int
	EscalaDolor           *int `gorm:"column:escala_dolor"`
	Peso                  *float64
	Talla                 *float64
}

func (signoVitalRow) TableName() string { return "signos_vitales" }

func (r signoVitalRow) toDomain() hce.VitalSign {
	return hce.VitalSign{
		Date:        r.Fecha,
		SystolicBP:  r.PresionSistolica,
		DiastolicBP: r.PresionDiastolica,
		HeartRate:   r.FrecuenciaCardiaca,
		RespRate:    r.FrecuenciaRespiratoria,
		Temperature: r.Temperatura,
		SpO2:        r.SaturacionOxigeno,
		Glasgow:     r.Glasgow,
		PainScale:   r.EscalaDolor,
		WeightKG:    r.Peso,
		HeightCM:    r.Talla,
	}
}

type diagnosticoRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID    uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha         time.Time
	Codigo        string
	Descripcion   string
	Tipo          string
	Estado        string
	Observaciones string
	DoctorID      *uuid.UUID      `gorm:"column:doctor_id;type:uuid"`
	Doctor        *profesionalRow `gorm:"foreignKey:DoctorID"`
}

func (diagnosticoRow) TableName() string { return "diagnosticos" }

func (r diagnosticoRow) toDomain() hce.Diagnosis {
	return hce.Diagnosis{
		Date:         r.Fecha,
		Code:         r.Codigo,
		Description:  r.Descripcion,
		Type:         r.Tipo,
		Status:       r.Estado,
		Observations: r.Observaciones,
		Clinician:    r.Doctor.toDomain(),
	}
}

type alertaRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID  uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha       time.Time
	Tipo        string
	Titulo      string
	Descripcion string
	Activa      bool
}

func (alertaRow) TableName() string { return "alertas_clinicas" }

func (r alertaRow) toDomain() hce.Alert {
	return hce.Alert{
		Date:        r.Fecha,
		Type:        r.Tipo,
		Title:       r.Titulo,
		Description: r.Descripcion,
		Active:      r.Activa,
	}
}

type prescripcionRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID   uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha        time.Time
	Diagnostico  string
	Indicaciones string
	DoctorID     *uuid.UUID       `gorm:"column:doctor_id;type:uuid"`
	Doctor       *profesionalRow  `gorm:"foreignKey:DoctorID"`
	Medicamentos []medicamentoRow `gorm:"foreignKey:PrescripcionID"`
}

func (prescripcionRow) TableName() string { return "prescripciones" }

type medicamentoRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PrescripcionID uuid.UUID `gorm:"column:prescripcion_id;type:uuid"`
	Nombre         string
	Dosis          string
	Via            string
	Frecuencia     string
	Duracion       string
	Cantidad       string
	Indicaciones   string
}

func (medicamentoRow) TableName() string { return "medicamentos_prescritos" }

func (r prescripcionRow) toDomain() hce.Prescription {
	meds := make([]hce.Medication, 0, len(r.Medicamentos))
	for _, m := range r.Medicamentos {
		meds = append(meds, hce.Medication{
			Name:        m.Nombre,
			Dose:        m.Dosis,
			Route:       m.Via,
			Frequency:   m.Frecuencia,
			Duration:    m.Duracion,
			Quantity:    m.Cantidad,
			Indications: m.Indicaciones,
		})
	}
	return hce.Prescription{
		Date:        r.Fecha,
		Clinician:   r.Doctor.toDomain(),
		Diagnosis:   r.Diagnostico,
		Indications: r.Indicaciones,
		Medications: meds,
	}
}

type ordenRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID    uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha         time.Time
	Categoria     string // general, laboratorio, examen
	Tipo          string
	Descripcion   string
	Observaciones string
	Estado        string
	DoctorID      *uuid.UUID      `gorm:"column:doctor_id;type:uuid"`
	Doctor        *profesionalRow `gorm:"foreignKey:DoctorID"`
}

func (ordenRow) TableName() string { return "ordenes_medicas" }

func (r ordenRow) toDomain() hce.MedicalOrder {
	return hce.MedicalOrder{
		Date:         r.Fecha,
		Type:         r.Tipo,
		Description:  r.Descripcion,
		Observations: r.Observaciones,
		Status:       r.Estado,
		Clinician:    r.Doctor.toDomain(),
	}
}

type resultadoLabRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha      time.Time
	Examen     string
	Resultado  string
}

func (resultadoLabRow) TableName() string { return "resultados_laboratorio" }

func (r resultadoLabRow) toDomain() hce.LabResult {
	return hce.LabResult{Date: r.Fecha, Name: r.Examen, Result: r.Resultado}
}

type procedimientoRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID  uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha       time.Time
	Nombre      string
	CodigoCups  string `gorm:"column:codigo_cups"`
	Estado      string
	Descripcion string
	Hallazgos   string
	DoctorID    *uuid.UUID      `gorm:"column:doctor_id;type:uuid"`
	Doctor      *profesionalRow `gorm:"foreignKey:DoctorID"`
}

func (procedimientoRow) TableName() string { return "procedimientos" }

func (r procedimientoRow) toDomain() hce.Procedure {
	return hce.Procedure{
		Date:        r.Fecha,
		Name:        r.Nombre,
		CUPSCode:    r.CodigoCups,
		Status:      r.Estado,
		Description: r.Descripcion,
		Findings:    r.Hallazgos,
		Clinician:   r.Doctor.toDomain(),
	}
}

type cirugiaRow struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID       uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha            time.Time
	Nombre           string
	CodigoCups       string `gorm:"column:codigo_cups"`
	CodigoDx         string `gorm:"column:codigo_dx"`
	Indicacion       string
	Estado           string
	Prioridad        string
	Tipo             string
	TipoAnestesia    string `gorm:"column:tipo_anestesia"`
	ClaseASA         string `gorm:"column:clase_asa"`
	DuracionMinutos  *int   `gorm:"column:duracion_minutos"`
	Quirofano        string
	Tecnica          string
	Hallazgos        string
	Complicaciones   string
	Resultados       string
	CirujanoID       *uuid.UUID      `gorm:"column:cirujano_id;type:uuid"`
	Cirujano         *profesionalRow `gorm:"foreignKey:CirujanoID"`
	AnestesiologoID  *uuid.UUID      `gorm:"column:anestesiologo_id;type:uuid"`
	Anestesiologo    *profesionalRow `gorm:"foreignKey:AnestesiologoID"`
	FirmadoPorID     *uuid.UUID      `gorm:"column:firmado_por_id;type:uuid"`
	FirmadoPor       *profesionalRow `gorm:"foreignKey:FirmadoPorID"`
	FechaFirma       *time.Time      `gorm:"column:fecha_firma"`
}

func (cirugiaRow) TableName() string { return "cirugias" }

func (r cirugiaRow) toDomain() hce.Surgery {
	return hce.Surgery{
		Date:             r.Fecha,
		Name:             r.Nombre,
		CUPSCode:         r.CodigoCups,
		DiagnosisCode:    r.CodigoDx,
		Indication:       r.Indicacion,
		Status:           r.Estado,
		Priority:         r.Prioridad,
		Type:             r.Tipo,
		AnesthesiaType:   r.TipoAnestesia,
		ASAClass:         r.ClaseASA,
		DurationMinutes:  r.DuracionMinutos,
		OperatingRoom:    r.Quirofano,
		Technique:        r.Tecnica,
		Findings:         r.Hallazgos,
		Complications:    r.Complicaciones,
		Results:          r.Resultados,
		Surgeon:          r.Cirujano.toDomain(),
		Anesthesiologist: r.Anestesiologo.toDomain(),
		SignedBy:         r.FirmadoPor.toDomain(),
		SignedAt:         r.FechaFirma,
	}
}

type interconsultaRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID     uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	FechaSolicitud time.Time  `gorm:"column:fecha_solicitud"`
	FechaRespuesta *time.Time `gorm:"column:fecha_respuesta"`
	Especialidad   string
	Motivo         string
	Estado         string
	SolicitanteID  *uuid.UUID      `gorm:"column:solicitante_id;type:uuid"`
	Solicitante    *profesionalRow `gorm:"foreignKey:SolicitanteID"`
	EspecialistaID *uuid.UUID      `gorm:"column:especialista_id;type:uuid"`
	Especialista   *profesionalRow `gorm:"foreignKey:EspecialistaID"`
}

func (interconsultaRow) TableName() string { return "interconsultas" }

func (r interconsultaRow) toDomain() hce.Referral {
	return hce.Referral{
		RequestedAt: r.FechaSolicitud,
		RespondedAt: r.FechaRespuesta,
		Specialty:   r.Especialidad,
		Motive:      r.Motivo,
		Status:      r.Estado,
		RequestedBy: r.Solicitante.toDomain(),
		Specialist:  r.Especialista.toDomain(),
	}
}

type notaEnfermeriaRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID  uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Fecha       time.Time
	Tipo        string
	Contenido   string
	EnfermeroID *uuid.UUID      `gorm:"column:enfermero_id;type:uuid"`
	Enfermero   *profesionalRow `gorm:"foreignKey:EnfermeroID"`
}

func (notaEnfermeriaRow) TableName() string { return "notas_enfermeria" }

func (r notaEnfermeriaRow) toDomain() hce.NursingNote {
	return hce.NursingNote{
		Date:    r.Fecha,
		Nurse:   r.Enfermero.toDomain(),
		Type:    r.Tipo,
		Content: r.Contenido,
	}
}

type imagenologiaRow struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID         uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	FechaSolicitud     time.Time `gorm:"column:fecha_solicitud"`
	Tipo               string
	RegionAnatomica    string `gorm:"column:region_anatomica"`
	IndicacionClinica  string `gorm:"column:indicacion_clinica"`
	Hallazgos          string
	Conclusion         string
	Estado             string
	SolicitanteID      *uuid.UUID      `gorm:"column:solicitante_id;type:uuid"`
	Solicitante        *profesionalRow `gorm:"foreignKey:SolicitanteID"`
}

func (imagenologiaRow) TableName() string { return "imagenologia" }

func (r imagenologiaRow) toDomain() hce.ImagingStudy {
	return hce.ImagingStudy{
		RequestedAt:        r.FechaSolicitud,
		Type:               r.Tipo,
		BodyRegion:         r.RegionAnatomica,
		ClinicalIndication: r.IndicacionClinica,
		Findings:           r.Hallazgos,
		Conclusion:         r.Conclusion,
		Status:             r.Estado,
		RequestedBy:        r.Solicitante.toDomain(),
	}
}

type urgenciaRow struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID         uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	FechaLlegada       time.Time `gorm:"column:fecha_llegada"`
	Triage             string
	Prioridad          string
	Motivo             string
	DiagnosticoInicial string `gorm:"column:diagnostico_inicial"`
	Tratamiento        string
	Destino            string
	MedicoID           *uuid.UUID      `gorm:"column:medico_id;type:uuid"`
	Medico             *profesionalRow `gorm:"foreignKey:MedicoID"`
}

func (urgenciaRow) TableName() string { return "urgencias" }

func (r urgenciaRow) toDomain() hce.EmergencyVisit {
	return hce.EmergencyVisit{
		ArrivedAt:        r.FechaLlegada,
		TriageCategory:   r.Triage,
		Priority:         r.Prioridad,
		Motive:           r.Motivo,
		InitialDiagnosis: r.DiagnosticoInicial,
		Treatment:        r.Tratamiento,
		Disposition:      r.Destino,
		Physician:        r.Medico.toDomain(),
	}
}

type hospitalizacionRow struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID       uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	FechaIngreso     time.Time  `gorm:"column:fecha_ingreso"`
	FechaEgreso      *time.Time `gorm:"column:fecha_egreso"`
	Estado           string
	Unidad           string
	Habitacion       string
	Cama             string
	MotivoIngreso    string          `gorm:"column:motivo_ingreso"`
	DxIngreso        string          `gorm:"column:dx_ingreso"`
	DxEgreso         string          `gorm:"column:dx_egreso"`
	Movimientos      []movimientoRow `gorm:"foreignKey:HospitalizacionID"`
}

func (hospitalizacionRow) TableName() string { return "hospitalizaciones" }

type movimientoRow struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	HospitalizacionID uuid.UUID `gorm:"column:hospitalizacion_id;type:uuid"`
	Fecha             time.Time
	Tipo              string
	Motivo            string
}

func (movimientoRow) TableName() string { return "movimientos_hospitalarios" }

func (r hospitalizacionRow) toDomain() hce.Admission {
	moves := make([]hce.Movement, 0, len(r.Movimientos))
	for _, m := range r.Movimientos {
		moves = append(moves, hce.Movement{Date: m.Fecha, Type: m.Tipo, Motive: m.Motivo})
	}
	return hce.Admission{
		AdmittedAt:         r.FechaIngreso,
		DischargedAt:       r.FechaEgreso,
		Status:             r.Estado,
		Unit:               r.Unidad,
		Room:               r.Habitacion,
		Bed:                r.Cama,
		AdmitMotive:        r.MotivoIngreso,
		AdmitDiagnosis:     r.DxIngreso,
		DischargeDiagnosis: r.DxEgreso,
		Movements:          moves,
	}
}

type antecedenteRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID uuid.UUID `gorm:"column:paciente_id;type:uuid"`
	Categoria  string // patologico, quirurgico, alergico, familiar, farmacologico
	Detalle    string
}

func (antecedenteRow) TableName() string { return "antecedentes" }

type ginecoRow struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PacienteID      uuid.UUID  `gorm:"column:paciente_id;type:uuid"`
	Gestaciones     *int
	Partos          *int
	Abortos         *int
	Cesareas        *int
	FechaUltimaRegla *time.Time `gorm:"column:fecha_ultima_regla"`
	Notas           string
}

func (ginecoRow) TableName() string { return "antecedentes_gineco" }
