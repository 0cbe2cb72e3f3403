package verification_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
	"github.com/yephonekyaw/sit-cert-server/internal/dashboard"
	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/retrieval"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
	"github.com/yephonekyaw/sit-cert-server/internal/verification"
	"github.com/yephonekyaw/sit-cert-server/pkg/lifecycle"
)

type fakeEngine struct {
	submitted     *extraction.Result
	authoritative *extraction.Result
	err           error
}

func (f *fakeEngine) Extract(_ context.Context, _ []byte, filename string) (*extraction.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if filename == "authoritative.pdf" {
		return f.authoritative, nil
	}
	return f.submitted, nil
}

type fakeFieldExtractor struct {
	first  certificates.Record
	second certificates.Record
}

func (f *fakeFieldExtractor) ExtractFields(_ context.Context, _ string, opts certificates.ExtractOptions) (*certificates.Record, error) {
	record := f.first
	if opts.Deterministic {
		record = f.second
	}
	return &record, nil
}

type fakeRetriever struct {
	data  []byte
	err   error
	calls int
	url   string
}

func (f *fakeRetriever) Fetch(_ context.Context, verificationURL string) ([]byte, error) {
	f.calls++
	f.url = verificationURL
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeStorage struct {
	data    []byte
	uploads []string
}

func (f *fakeStorage) Start(_ *lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) error {
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeStorage) Download(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeStorage) Exists(_ context.Context, _ string) (bool, error) { return true, nil }

type fakeSubmissions struct {
	detail     *submissions.Detail
	findErr    error
	historyErr error
	records    []submissions.RecordCommand
}

func (f *fakeSubmissions) FindDetail(_ context.Context, _ uuid.UUID) (*submissions.Detail, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.detail, nil
}

func (f *fakeSubmissions) RecordVerification(_ context.Context, cmd submissions.RecordCommand) (*submissions.HistoryEntry, error) {
	f.records = append(f.records, cmd)
	return &submissions.HistoryEntry{
		ID:               uuid.New(),
		SubmissionID:     cmd.SubmissionID,
		VerifierID:       cmd.VerifierID,
		VerificationType: cmd.VerificationType,
		NewStatus:        cmd.NewStatus,
		Comments:         cmd.Comments,
	}, nil
}

func (f *fakeSubmissions) History(_ context.Context, _ uuid.UUID) ([]submissions.HistoryEntry, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return nil, nil
}

type fakeStats struct {
	deltas []dashboard.Delta
}

func (f *fakeStats) Apply(_ context.Context, _ uuid.UUID, delta dashboard.Delta) error {
	f.deltas = append(f.deltas, delta)
	return nil
}

type fakeNotifier struct {
	events []notifications.Event
}

func (f *fakeNotifier) Enqueue(_ context.Context, event notifications.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeNotifier) Start(_ *lifecycle.Coordinator) error { return nil }

type fakeGuard struct {
	blocked  bool
	releases int
}

func (f *fakeGuard) Acquire(_ context.Context, _ uuid.UUID, _ time.Duration) (bool, error) {
	return !f.blocked, nil
}

func (f *fakeGuard) Release(_ context.Context, _ uuid.UUID) error {
	f.releases++
	return nil
}

type fixture struct {
	verifier    *verification.Verifier
	submissions *fakeSubmissions
	stats       *fakeStats
	notifier    *fakeNotifier
	retriever   *fakeRetriever
	storage     *fakeStorage
	guard       *fakeGuard
	detail      *submissions.Detail
}

func submittedRecord() certificates.Record {
	return certificates.Record{
		StudentName:        "Jane Doe",
		RecordID:           "20250114",
		VerificationURL:    "https://www.citiprogram.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114",
		ExpirationDate:     "13-Jan-2028",
		CurriculumGroup:    "Human Subjects Research",
		CourseLearnerGroup: "Social Behavioral Research",
		UniversityName:     "King Mongkut's University of Technology Thonburi",
		GeneratedOn:        "14-Jan-2025",
	}
}

func digitalResult() *extraction.Result {
	confidence := 99.0
	return &extraction.Result{
		Method:     extraction.MethodDigital,
		Pages:      1,
		Text:       "CITI Program completion certificate for Jane Doe",
		Confidence: &confidence,
		Metadata: &extraction.Metadata{
			Producer:     "iText",
			CreationDate: "D:20250114031902-05'00'",
		},
	}
}

func newFixture(first, second certificates.Record) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	detail := &submissions.Detail{
		Submission: submissions.Submission{
			ID:         uuid.New(),
			StudentID:  uuid.New(),
			ScheduleID: uuid.New(),
			Filename:   "cert.pdf",
			FileKey:    "submissions/cert.pdf",
			Status:     submissions.StatusPending,
		},
		StudentFullName: "Jane Doe",
		StudentUserID:   uuid.New(),
	}

	extractor := &fakeFieldExtractor{first: first, second: second}
	subs := &fakeSubmissions{detail: detail}
	stats := &fakeStats{}
	notifier := &fakeNotifier{}
	retriever := &fakeRetriever{data: []byte("authoritative bytes")}
	store := &fakeStorage{data: []byte("submitted bytes")}
	guard := &fakeGuard{}

	rt := &verification.Runtime{
		Engine: &fakeEngine{
			submitted:     digitalResult(),
			authoritative: digitalResult(),
		},
		Extractor:   extractor,
		Validator:   certificates.NewValidator(extractor, "www.citiprogram.org", logger),
		Retriever:   retriever,
		Storage:     store,
		Submissions: subs,
		Stats:       stats,
		Notifier:    notifier,
		Guard:       guard,
		Logger:      logger,

		RunTimeout:    time.Minute,
		GuardTTL:      time.Minute,
		ArchivePrefix: "citi-automated-docs",
	}

	return &fixture{
		verifier:    verification.New(rt),
		submissions: subs,
		stats:       stats,
		notifier:    notifier,
		retriever:   retriever,
		storage:     store,
		guard:       guard,
		detail:      detail,
	}
}

func (f *fixture) verify(t *testing.T) {
	t.Helper()
	if err := f.verifier.Verify(context.Background(), "req-1", f.detail.ID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func (f *fixture) singleRecord(t *testing.T) submissions.RecordCommand {
	t.Helper()
	if len(f.submissions.records) != 1 {
		t.Fatalf("got %d history records, want exactly 1", len(f.submissions.records))
	}
	return f.submissions.records[0]
}

func TestVerifyApproves(t *testing.T) {
	f := newFixture(submittedRecord(), submittedRecord())
	f.verify(t)

	record := f.singleRecord(t)
	if record.NewStatus != submissions.StatusApproved {
		t.Errorf("status = %q, want approved", record.NewStatus)
	}
	if record.VerifierID != nil {
		t.Errorf("verifier id = %v, want nil", record.VerifierID)
	}
	if record.VerificationType != submissions.VerificationAgent {
		t.Errorf("verification type = %q, want AGENT", record.VerificationType)
	}
	if len(record.Comments) != 1 || !strings.Contains(record.Comments[0], "valid and verified") {
		t.Errorf("comments = %v", record.Comments)
	}

	expectedDelta := dashboard.Delta{Approved: 1, Pending: -1, AgentVerification: 1}
	if len(f.stats.deltas) != 1 || f.stats.deltas[0] != expectedDelta {
		t.Errorf("deltas = %+v", f.stats.deltas)
	}

	if len(f.notifier.events) != 1 {
		t.Fatalf("got %d notifications, want 1", len(f.notifier.events))
	}
	event := f.notifier.events[0]
	if event.Code != notifications.CodeVerify {
		t.Errorf("code = %q, want %q", event.Code, notifications.CodeVerify)
	}
	if len(event.RecipientIDs) != 1 || event.RecipientIDs[0] != f.detail.StudentUserID {
		t.Errorf("recipients = %v, want student user id", event.RecipientIDs)
	}
	if event.ActorType != notifications.ActorSystem {
		t.Errorf("actor type = %q, want system", event.ActorType)
	}

	if len(f.storage.uploads) != 1 || !strings.HasPrefix(f.storage.uploads[0], "citi-automated-docs/") {
		t.Errorf("archive uploads = %v", f.storage.uploads)
	}

	if f.guard.releases != 1 {
		t.Errorf("guard released %d times, want 1", f.guard.releases)
	}
}

func TestVerifyNormalizesVerificationURL(t *testing.T) {
	record := submittedRecord()
	record.VerificationURL = "www.citiprogram.org/verify/?wa1b2c3d4-e5f6-7890-abcd-ef0123456789-20250114"

	f := newFixture(record, record)
	f.verify(t)

	expected := "https://" + record.VerificationURL
	if f.retriever.url != expected {
		t.Errorf("retriever url = %q, want %q", f.retriever.url, expected)
	}

	if got := f.singleRecord(t); got.NewStatus != submissions.StatusApproved {
		t.Errorf("status = %q, want approved", got.NewStatus)
	}
}

func TestVerifyRejectsNameMismatch(t *testing.T) {
	f := newFixture(submittedRecord(), submittedRecord())
	f.detail.StudentFullName = "John Doe"
	f.verify(t)

	record := f.singleRecord(t)
	if record.NewStatus != submissions.StatusRejected {
		t.Errorf("status = %q, want rejected", record.NewStatus)
	}
	if len(record.Comments) != 1 || !strings.Contains(record.Comments[0], "tampering") {
		t.Errorf("comments = %v", record.Comments)
	}
	if f.retriever.calls != 0 {
		t.Errorf("retriever called %d times, want 0", f.retriever.calls)
	}

	expectedDelta := dashboard.Delta{Rejected: 1, Pending: -1}
	if len(f.stats.deltas) != 1 || f.stats.deltas[0] != expectedDelta {
		t.Errorf("deltas = %+v", f.stats.deltas)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Code != notifications.CodeReject {
		t.Errorf("events = %+v", f.notifier.events)
	}
}

func TestVerifyRejectsCrossCheckMismatch(t *testing.T) {
	second := submittedRecord()
	second.UniversityName = "Another University"

	f := newFixture(submittedRecord(), second)
	f.verify(t)

	record := f.singleRecord(t)
	if record.NewStatus != submissions.StatusRejected {
		t.Errorf("status = %q, want rejected", record.NewStatus)
	}
	if len(record.Comments) != 2 {
		t.Fatalf("comments = %v, want header plus one field", record.Comments)
	}
	if record.Comments[1] != "University Name" {
		t.Errorf("field comment = %q, want %q", record.Comments[1], "University Name")
	}
	if f.retriever.calls != 1 {
		t.Errorf("retriever called %d times, want 1", f.retriever.calls)
	}
}

func TestVerifyRejectsOnRetrievalFailure(t *testing.T) {
	f := newFixture(submittedRecord(), submittedRecord())
	f.retriever.err = retrieval.ErrNotConfigured
	f.verify(t)

	record := f.singleRecord(t)
	if record.NewStatus != submissions.StatusRejected {
		t.Errorf("status = %q, want rejected", record.NewStatus)
	}
	if record.VerificationType != submissions.VerificationAgent {
		t.Errorf("verification type = %q, want AGENT", record.VerificationType)
	}
	if record.VerifierID != nil {
		t.Errorf("verifier id = %v, want nil", record.VerifierID)
	}
	if len(record.Comments) != 1 || !strings.Contains(record.Comments[0], "Unexpected error") {
		t.Errorf("comments = %v", record.Comments)
	}
}

func TestVerifyGuardConflict(t *testing.T) {
	f := newFixture(submittedRecord(), submittedRecord())
	f.guard.blocked = true

	err := f.verifier.Verify(context.Background(), "req-1", f.detail.ID)
	if !errors.Is(err, verification.ErrAlreadyRunning) {
		t.Errorf("got %v, want ErrAlreadyRunning", err)
	}
	if len(f.submissions.records) != 0 {
		t.Errorf("got %d history records, want 0", len(f.submissions.records))
	}
}

func TestVerifyUnknownSubmission(t *testing.T) {
	f := newFixture(submittedRecord(), submittedRecord())
	f.submissions.findErr = submissions.ErrNotFound

	err := f.verifier.Verify(context.Background(), "req-1", uuid.New())
	if !errors.Is(err, submissions.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if len(f.submissions.records) != 0 {
		t.Errorf("got %d history records, want 0", len(f.submissions.records))
	}
}
