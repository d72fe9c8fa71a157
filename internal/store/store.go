package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clinicamia/hcereport/internal/hce"
)

// Store loads clinical histories from Postgres.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database with the given DSN.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("conectar base de datos: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// NewWithDB wraps an existing connection, used by tests with sqlmock-style
// drivers.
func NewWithDB(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// NormalizeRange widens the inclusive filter to full local days: From is
// truncated to 00:00:00.000 and To extended to 23:59:59.999.
func NormalizeRange(r *hce.DateRange) *hce.DateRange {
	if r == nil {
		return nil
	}
	from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(),
		0, 0, 0, 0, r.From.Location())
	to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(),
		23, 59, 59, int(999*time.Millisecond), r.To.Location())
	return &hce.DateRange{From: from, To: to}
}

// window applies the normalized date filter on a timestamp column.
func window(q *gorm.DB, column string, r *hce.DateRange) *gorm.DB {
	if r == nil {
		return q
	}
	return q.Where(column+" BETWEEN ? AND ?", r.From, r.To)
}

// LoadChart assembles the complete chart for a patient. Category lists are
// fetched concurrently, each time-descending and bounded by the renderer's
// caps upstream. A missing patient returns hce.ErrPatientNotFound.
func (s *Store) LoadChart(ctx context.Context, patientID uuid.UUID, rng *hce.DateRange) (*hce.Chart, error) {
	var pr pacienteRow
	err := s.db.WithContext(ctx).First(&pr, "id = ?", patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, hce.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consultar paciente: %w", err)
	}

	rng = NormalizeRange(rng)
	ch := &hce.Chart{Patient: pr.toDomain(), Range: rng}

	grp, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return s.db.WithContext(gctx) }

	grp.Go(func() error {
		var rows []contactoRow
		if err := db().Where("paciente_id = ?", patientID).Limit(5).
			Find(&rows).Error; err != nil {
			return fmt.Errorf("contactos de emergencia: %w", err)
		}
		for _, r := range rows {
			ch.Patient.EmergencyContacts = append(ch.Patient.EmergencyContacts,
				hce.EmergencyContact{Name: r.Nombre, Relationship: r.Parentesco, Phone: r.Telefono})
		}
		return nil
	})

	grp.Go(func() error {
		var rows []diagnosticoRow
		q := window(db().Preload("Doctor").Where("paciente_id = ?", patientID),
			"fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("diagnósticos: %w", err)
		}
		for _, r := range rows {
			ch.Diagnoses = append(ch.Diagnoses, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []alertaRow
		q := window(db().Where("paciente_id = ?", patientID), "fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("alertas: %w", err)
		}
		for _, r := range rows {
			ch.Alerts = append(ch.Alerts, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []evolucionRow
		q := window(db().Preload("Doctor").Where("paciente_id = ?", patientID),
			"fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("evoluciones: %w", err)
		}
		for _, r := range rows {
			ch.Evolutions = append(ch.Evolutions, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []signoVitalRow
		q := window(db().Where("paciente_id = ?", patientID), "fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("signos vitales: %w", err)
		}
		for _, r := range rows {
			ch.Vitals = append(ch.Vitals, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		hist, err := s.loadHistory(gctx, patientID)
		if err != nil {
			return err
		}
		ch.History = hist
		return nil
	})

	grp.Go(func() error {
		var rows []resultadoLabRow
		q := window(db().Where("paciente_id = ?", patientID), "fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("resultados de laboratorio: %w", err)
		}
		for _, r := range rows {
			ch.LabResults = append(ch.LabResults, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []prescripcionRow
		q := window(db().Preload("Doctor").Preload("Medicamentos").
			Where("paciente_id = ?", patientID), "fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("prescripciones: %w", err)
		}
		for _, r := range rows {
			ch.Prescriptions = append(ch.Prescriptions, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []ordenRow
		q := window(db().Preload("Doctor").Where("paciente_id = ?", patientID),
			"fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("órdenes médicas: %w", err)
		}
		for _, r := range rows {
			o := r.toDomain()
			switch r.Categoria {
			case "laboratorio":
				ch.LabOrders = append(ch.LabOrders, o)
			case "examen":
				if r.Estado == "Pendiente" {
					ch.PendingExams = append(ch.PendingExams, o)
				} else {
					ch.Orders = append(ch.Orders, o)
				}
			default:
				ch.Orders = append(ch.Orders, o)
			}
		}
		return nil
	})

	grp.Go(func() error {
		var rows []procedimientoRow
		q := window(db().Preload("Doctor").Where("paciente_id = ?", patientID),
			"fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("procedimientos: %w", err)
		}
		for _, r := range rows {
			ch.Procedures = append(ch.Procedures, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []cirugiaRow
		q := window(db().Preload("Cirujano").Preload("Anestesiologo").
			Preload("FirmadoPor").Where("paciente_id = ?", patientID), "fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("cirugías: %w", err)
		}
		for _, r := range rows {
			ch.Surgeries = append(ch.Surgeries, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []interconsultaRow
		q := window(db().Preload("Solicitante").Preload("Especialista").
			Where("paciente_id = ?", patientID), "fecha_solicitud", rng)
		if err := q.Order("fecha_solicitud DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("interconsultas: %w", err)
		}
		for _, r := range rows {
			ch.Referrals = append(ch.Referrals, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []notaEnfermeriaRow
		q := window(db().Preload("Enfermero").Where("paciente_id = ?", patientID),
			"fecha", rng)
		if err := q.Order("fecha DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("notas de enfermería: %w", err)
		}
		for _, r := range rows {
			ch.NursingNotes = append(ch.NursingNotes, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []imagenologiaRow
		q := window(db().Preload("Solicitante").Where("paciente_id = ?", patientID),
			"fecha_solicitud", rng)
		if err := q.Order("fecha_solicitud DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("imagenología: %w", err)
		}
		for _, r := range rows {
			ch.Imaging = append(ch.Imaging, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []urgenciaRow
		q := window(db().Preload("Medico").Where("paciente_id = ?", patientID),
			"fecha_llegada", rng)
		if err := q.Order("fecha_llegada DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("urgencias: %w", err)
		}
		for _, r := range rows {
			ch.Emergencies = append(ch.Emergencies, r.toDomain())
		}
		return nil
	})

	grp.Go(func() error {
		var rows []hospitalizacionRow
		q := window(db().Preload("Movimientos").Where("paciente_id = ?", patientID),
			"fecha_ingreso", rng)
		if err := q.Order("fecha_ingreso DESC").Find(&rows).Error; err != nil {
			return fmt.Errorf("hospitalizaciones: %w", err)
		}
		for _, r := range rows {
			ch.Admissions = append(ch.Admissions, r.toDomain())
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Store) loadHistory(ctx context.Context, patientID uuid.UUID) (*hce.History, error) {
	var rows []antecedenteRow
	if err := s.db.WithContext(ctx).Where("paciente_id = ?", patientID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("antecedentes: %w", err)
	}
	hist := &hce.History{}
	for _, r := range rows {
		switch r.Categoria {
		case "patologico":
			hist.Pathological = append(hist.Pathological, r.Detalle)
		case "quirurgico":
			hist.Surgical = append(hist.Surgical, r.Detalle)
		case "alergico":
			hist.Allergic = append(hist.Allergic, r.Detalle)
		case "familiar":
			hist.Familial = append(hist.Familial, r.Detalle)
		case "farmacologico":
			hist.Pharmacological = append(hist.Pharmacological, r.Detalle)
		default:
			s.log.Warn().Str("categoria", r.Categoria).
				Msg("categoría de antecedente desconocida, se omite")
		}
	}

	var gr ginecoRow
	err := s.db.WithContext(ctx).Where("paciente_id = ?", patientID).First(&gr).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// optional record
	case err != nil:
		return nil, fmt.Errorf("antecedentes gineco-obstétricos: %w", err)
	default:
		hist.GynecoObstetric = &hce.GynecoObstetric{
			Gravidity:           gr.Gestaciones,
			Parity:              gr.Partos,
			Abortions:           gr.Abortos,
			CSections:           gr.Cesareas,
			LastMenstrualPeriod: gr.FechaUltimaRegla,
			Notes:               gr.Notas,
		}
	}
	if hist.Empty() {
		return nil, nil
	}
	return hist, nil
}

// Counts returns the per-category totals without rendering. It reuses the
// same aggregation path so the summary and the document never disagree.
func (s *Store) Counts(ctx context.Context, patientID uuid.UUID, rng *hce.DateRange) (hce.Counts, error) {
	ch, err := s.LoadChart(ctx, patientID, rng)
	if err != nil {
		return hce.Counts{}, err
	}
	return hce.CountsOf(ch), nil
}
