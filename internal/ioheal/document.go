package ioheal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"github.com/helenomaffra/maikedb/pkg/db"
	"github.com/helenomaffra/maikedb/pkg/maike"
	"github.com/helenomaffra/maikedb/pkg/ref"
	"github.com/jackc/pgx/v5"
)

// docID derives the deterministic row ID for a customs document from
// its natural key. An empty version and a NULL version map to the same
// ID, so upserts from sources that disagree on how to spell "no
// version" collapse onto one row.
func docID(dt maike.DocumentType, number, version string) string {
	key := fmt.Sprintf("customs-document|%s|%s|%s",
		dt, strings.ToUpper(strings.TrimSpace(number)),
		strings.TrimSpace(version))
	return gnuuid.New(key).String()
}

// docState is the subset of customs_documents columns the status heals
// read and write.
type docState struct {
	StatusText       string
	StatusCode       string
	Channel          string
	RegistrationDate *time.Time
	StatusDate       *time.Time
	ClearanceDate    *time.Time
	Source           string
}

func stateFromStatus(st *maike.DocumentStatus) docState {
	return docState{
		StatusText:       st.StatusText,
		StatusCode:       st.StatusCode,
		Channel:          st.Channel,
		RegistrationDate: st.RegistrationDate,
		StatusDate:       st.StatusDate,
		ClearanceDate:    st.ClearanceDate,
		Source:           st.Source,
	}
}

// fieldChange is one detected field-level difference, persisted as a
// ChangeEvent row.
type fieldChange struct {
	Field string
	Old   string
	New   string
}

// diffState compares the incoming state against the stored one under
// the fill rule: an empty incoming field never produces a change, and
// identical values never produce a change. Only real differences
// survive.
func diffState(old, incoming docState) []fieldChange {
	var res []fieldChange

	str := func(field, oldV, newV string) {
		if newV != "" && newV != oldV {
			res = append(res, fieldChange{Field: field, Old: oldV, New: newV})
		}
	}
	date := func(field string, oldV, newV *time.Time) {
		if newV == nil {
			return
		}
		if oldV == nil || !oldV.Equal(*newV) {
			res = append(res, fieldChange{
				Field: field,
				Old:   fmtDate(oldV),
				New:   fmtDate(newV),
			})
		}
	}

	str("status_text", old.StatusText, incoming.StatusText)
	str("status_code", old.StatusCode, incoming.StatusCode)
	str("customs_channel", old.Channel, incoming.Channel)
	date("registration_date", old.RegistrationDate, incoming.RegistrationDate)
	date("status_date", old.StatusDate, incoming.StatusDate)
	date("clearance_date", old.ClearanceDate, incoming.ClearanceDate)

	return res
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// preferPipeline blanks the legacy status fields when the stored row
// already carries a pipeline-tool-sourced status. The pipeline tool
// reflects what the operators see; legacy tables then only fill dates
// the pipeline does not carry.
func preferPipeline(old, incoming docState) docState {
	if old.Source != maike.SourceKanban ||
		incoming.Source != maike.SourceLegacy {
		return incoming
	}
	if old.StatusText != "" {
		incoming.StatusText = ""
	}
	if old.StatusCode != "" {
		incoming.StatusCode = ""
	}
	if old.Channel != "" {
		incoming.Channel = ""
	}
	return incoming
}

// merged applies the fill rule and returns the state to store.
func merged(old, incoming docState) docState {
	res := old
	if incoming.StatusText != "" {
		res.StatusText = incoming.StatusText
	}
	if incoming.StatusCode != "" {
		res.StatusCode = incoming.StatusCode
	}
	if incoming.Channel != "" {
		res.Channel = incoming.Channel
	}
	if incoming.RegistrationDate != nil {
		res.RegistrationDate = incoming.RegistrationDate
	}
	if incoming.StatusDate != nil {
		res.StatusDate = incoming.StatusDate
	}
	if incoming.ClearanceDate != nil {
		res.ClearanceDate = incoming.ClearanceDate
	}
	if incoming.Source != "" {
		res.Source = incoming.Source
	}
	return res
}

const selectDocQuery = `
SELECT status_text, status_code, customs_channel, registration_date,
	status_date, clearance_date, source_system
FROM customs_documents
WHERE id = $1
FOR UPDATE
`

const insertDocQuery = `
INSERT INTO customs_documents
	(id, document_number, document_type, document_version,
	process_reference, status_text, status_code, customs_channel,
	registration_date, status_date, clearance_date, source_system,
	last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
ON CONFLICT (id) DO NOTHING
`

const updateDocQuery = `
UPDATE customs_documents SET
	status_text = $2, status_code = $3, customs_channel = $4,
	registration_date = $5, status_date = $6, clearance_date = $7,
	source_system = $8,
	process_reference = COALESCE(process_reference, $9),
	last_updated = NOW()
WHERE id = $1
`

const insertEventQuery = `
INSERT INTO change_events
	(id, document_id, field_name, old_value, new_value, source,
	detected_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
`

// upsertDocument writes one document state into PRIMARY and appends a
// ChangeEvent per real field difference, in one transaction. A no-op
// upsert touches nothing: no UPDATE, no events. Two concurrent
// first-time heals of the same natural key converge: the insert is
// ON CONFLICT DO NOTHING and the loser re-reads the committed row.
func (h *healer) upsertDocument(
	ctx context.Context,
	dt maike.DocumentType,
	number, version string,
	processRef *string,
	incoming docState,
) error {
	pool := h.operator.Pool(db.Primary)
	if pool == nil {
		return SourceReadError("primary database", errNotConnected(db.Primary))
	}

	id := docID(dt, number, version)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return UpsertError("customs_documents", number, err)
	}
	defer tx.Rollback(ctx)

	found, err := applyToExisting(ctx, tx, id, number, dt, processRef,
		incoming)
	if err != nil {
		return err
	}

	if !found {
		st := merged(docState{}, incoming)
		tag, ierr := tx.Exec(ctx, insertDocQuery,
			id, strings.ToUpper(strings.TrimSpace(number)), string(dt),
			nullIfEmpty(version), processRef, st.StatusText,
			st.StatusCode, st.Channel, st.RegistrationDate,
			st.StatusDate, st.ClearanceDate, st.Source,
		)
		if ierr != nil {
			return UpsertError("customs_documents", number, ierr)
		}
		if tag.RowsAffected() == 0 {
			// a concurrent heal inserted the row first
			found, err = applyToExisting(ctx, tx, id, number, dt,
				processRef, incoming)
			if err != nil {
				return err
			}
			if !found {
				return UpsertError("customs_documents", number,
					fmt.Errorf("row %s vanished during upsert", id))
			}
		}
	}

	return tx.Commit(ctx)
}

// applyToExisting locks the stored row, diffs the incoming state
// against it and writes the update plus its ChangeEvent rows. The
// first return is false when no row exists yet.
func applyToExisting(
	ctx context.Context,
	tx pgx.Tx,
	id, number string,
	dt maike.DocumentType,
	processRef *string,
	incoming docState,
) (bool, error) {
	var (
		old     docState
		regDate sql.NullTime
		stDate  sql.NullTime
		clDate  sql.NullTime
	)
	err := tx.QueryRow(ctx, selectDocQuery, id).Scan(
		&old.StatusText, &old.StatusCode, &old.Channel,
		&regDate, &stDate, &clDate, &old.Source,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, UpsertError("customs_documents", number, err)
	}

	if regDate.Valid {
		old.RegistrationDate = &regDate.Time
	}
	if stDate.Valid {
		old.StatusDate = &stDate.Time
	}
	if clDate.Valid {
		old.ClearanceDate = &clDate.Time
	}

	incoming = preferPipeline(old, incoming)
	changes := diffState(old, incoming)
	if len(changes) == 0 {
		// identical source data: write nothing
		return true, nil
	}

	st := merged(old, incoming)
	_, err = tx.Exec(ctx, updateDocQuery,
		id, st.StatusText, st.StatusCode, st.Channel,
		st.RegistrationDate, st.StatusDate, st.ClearanceDate,
		st.Source, processRef,
	)
	if err != nil {
		return true, UpsertError("customs_documents", number, err)
	}

	for _, c := range changes {
		_, err = tx.Exec(ctx, insertEventQuery,
			uuid.NewString(), id, c.Field, c.Old, c.New,
			incoming.Source,
		)
		if err != nil {
			return true, UpsertError("change_events", number, err)
		}
	}
	slog.Info("document state changed",
		"document_number", number, "document_type", dt,
		"changes", len(changes), "source", incoming.Source)
	return true, nil
}

// HealDocumentStatus refreshes the status/channel fields of a linked
// document from the declaration sources. A row whose state already
// came from the pipeline tool keeps it; the legacy tables only fill
// what the pipeline did not set.
func (h *healer) HealDocumentStatus(
	ctx context.Context,
	r ref.Ref,
	dt maike.DocumentType,
) error {
	number, version, err := h.linkedDocument(ctx, r, dt)
	if err != nil {
		return err
	}
	if number == "" {
		slog.Debug("no linked document to heal",
			"process_reference", r.String(), "document_type", dt)
		return nil
	}

	st, err := h.fetchStatus(ctx, number, dt)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}

	procRef := r.String()
	return h.upsertDocument(ctx, dt, number, version, &procRef,
		stateFromStatus(st))
}

// HealFromAPI is the last-resort path: the live government API is the
// only source that knows the document. The row is created unlinked;
// linking happens when a process that references the number shows up.
func (h *healer) HealFromAPI(
	ctx context.Context,
	number string,
	dt maike.DocumentType,
) error {
	st, err := h.decl.DocumentStatus(ctx, number, dt)
	if err != nil {
		return err
	}
	if st == nil {
		slog.Warn("government API does not know the document",
			"document_number", number, "document_type", dt)
		return nil
	}
	return h.upsertDocument(ctx, dt, number, "", nil, stateFromStatus(st))
}

// HealKanbanStatus persists the operational stage the pipeline tool
// reports onto the documents linked to a process. Rows written here
// carry the pipeline source, so a later legacy read fills dates only
// and never displaces the status.
func (h *healer) HealKanbanStatus(
	ctx context.Context,
	r ref.Ref,
	rec *maike.ProcessRecord,
) error {
	if rec == nil || rec.KanbanStage == nil {
		return nil
	}
	stage := strings.TrimSpace(*rec.KanbanStage)
	if stage == "" {
		return nil
	}

	incoming := docState{StatusText: stage, Source: maike.SourceKanban}
	procRef := r.String()

	links := []struct {
		dt     maike.DocumentType
		number *string
	}{
		{maike.DocTypeDUIMP, rec.DuimpNumber},
		{maike.DocTypeDI, rec.DINumber},
		{maike.DocTypeCE, rec.CENumber},
	}
	for _, l := range links {
		if l.number == nil || strings.TrimSpace(*l.number) == "" {
			continue
		}
		err := h.upsertDocument(ctx, l.dt, *l.number, "", &procRef, incoming)
		if err != nil {
			return err
		}
	}
	return nil
}

const linkedDocQuery = `
SELECT document_number, COALESCE(document_version, '')
FROM customs_documents
WHERE process_reference = $1 AND document_type = $2
ORDER BY last_updated DESC
LIMIT 1
`

const processNumbersQuery = `
SELECT COALESCE(ce_number, ''), COALESCE(di_number, ''),
	COALESCE(duimp_number, '')
FROM import_processes
WHERE process_reference = $1
`

// linkedDocument finds the document number to heal: a linked
// customs_documents row first, the number columns on the process row
// as fallback.
func (h *healer) linkedDocument(
	ctx context.Context,
	r ref.Ref,
	dt maike.DocumentType,
) (number, version string, err error) {
	pool := h.operator.Pool(db.Primary)
	if pool == nil {
		return "", "", SourceReadError("primary database",
			errNotConnected(db.Primary))
	}

	err = pool.QueryRow(ctx, linkedDocQuery, r.String(), string(dt)).
		Scan(&number, &version)
	if err == nil {
		return number, version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", "", SourceReadError("customs_documents", err)
	}

	var ce, di, duimp string
	err = pool.QueryRow(ctx, processNumbersQuery, r.String()).
		Scan(&ce, &di, &duimp)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", SourceReadError("import_processes", err)
	}

	switch dt {
	case maike.DocTypeCE:
		return ce, "", nil
	case maike.DocTypeDI:
		return di, "", nil
	case maike.DocTypeDUIMP:
		return duimp, "", nil
	}
	return "", "", nil
}

// Legacy declaration tables, Portuguese schema. DUIMP detail lives in
// the declarations database; DI and CE in the legacy Make database.
const legacyDIStatusQuery = `
SELECT COALESCE(situacao, ''), COALESCE(codigo_situacao, ''),
	COALESCE(canal, ''), data_registro, data_situacao, data_desembaraco
FROM declaracoes_importacao
WHERE numero_di = $1
`

const legacyCEStatusQuery = `
SELECT COALESCE(situacao, ''), '', '', data_emissao, data_situacao,
	NULL::timestamp
FROM conhecimentos_embarque
WHERE numero_ce = $1
`

const duimpStatusQuery = `
SELECT COALESCE(situacao, ''), COALESCE(codigo_situacao, ''),
	COALESCE(canal, ''), data_registro, data_situacao, data_desembaraco
FROM duimps
WHERE numero = $1
ORDER BY versao DESC
LIMIT 1
`

// fetchStatus reads the document status from the declaration tables,
// falling back to the live government API when the owning database is
// not connected or has no row.
func (h *healer) fetchStatus(
	ctx context.Context,
	number string,
	dt maike.DocumentType,
) (*maike.DocumentStatus, error) {
	var (
		id    db.DatabaseID
		query string
	)
	switch dt {
	case maike.DocTypeDUIMP:
		id, query = db.Declarations, duimpStatusQuery
	case maike.DocTypeCE:
		id, query = db.Legacy, legacyCEStatusQuery
	default:
		id, query = db.Legacy, legacyDIStatusQuery
	}

	pool := h.operator.Pool(id)
	if pool == nil {
		slog.Warn("declaration source not connected, trying live API",
			"database", id, "document_number", number)
		return h.decl.DocumentStatus(ctx, number, dt)
	}

	var (
		st      maike.DocumentStatus
		regDate sql.NullTime
		stDate  sql.NullTime
		clDate  sql.NullTime
	)
	err := pool.QueryRow(ctx, query, number).Scan(
		&st.StatusText, &st.StatusCode, &st.Channel,
		&regDate, &stDate, &clDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return h.decl.DocumentStatus(ctx, number, dt)
	}
	if err != nil {
		return nil, SourceReadError(string(id), err)
	}

	if regDate.Valid {
		st.RegistrationDate = &regDate.Time
	}
	if stDate.Valid {
		st.StatusDate = &stDate.Time
	}
	if clDate.Valid {
		st.ClearanceDate = &clDate.Time
	}
	st.Channel = normalizeChannel(st.Channel)
	st.Source = maike.SourceLegacy
	return &st, nil
}

// normalizeChannel maps the legacy channel spellings onto the
// canonical values.
func normalizeChannel(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "VERDE", "GREEN":
		return maike.ChannelGreen
	case "VERMELHO", "RED":
		return maike.ChannelRed
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
