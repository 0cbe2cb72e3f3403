package api

import (
	"fmt"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
	"github.com/yephonekyaw/sit-cert-server/internal/dashboard"
	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/retrieval"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
	"github.com/yephonekyaw/sit-cert-server/internal/verification"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Submissions   submissions.System
	Stats         dashboard.System
	Notifications notifications.System
	Verifier      *verification.Verifier
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	submissionSystem := submissions.New(db, runtime.Logger)
	statsSystem := dashboard.New(db, runtime.Logger)

	notificationSystem, err := notifications.New(&runtime.Broker, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("notifications init failed: %w", err)
	}
	if err := notificationSystem.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("notifications start failed: %w", err)
	}

	engine := extraction.New(runtime.Logger)
	extractor := certificates.NewFieldExtractor(runtime.Agent.Build(), runtime.Logger)
	validator := certificates.NewValidator(extractor, runtime.Issuer.VerifyHost, runtime.Logger)
	retriever := retrieval.New(runtime.Issuer, runtime.Logger)

	verifier := verification.New(&verification.Runtime{
		Engine:      engine,
		Extractor:   extractor,
		Validator:   validator,
		Retriever:   retriever,
		Storage:     runtime.Storage,
		Submissions: submissionSystem,
		Stats:       statsSystem,
		Notifier:    notificationSystem,
		Guard:       verification.NewGuard(runtime.Cache.Client()),
		Logger:      runtime.Logger.With("system", "verification"),

		RunTimeout:    runtime.Verification.RunTimeoutDuration(),
		GuardTTL:      runtime.Verification.GuardTTLDuration(),
		ArchivePrefix: runtime.Verification.ArchivePrefix,
	})

	return &Domain{
		Submissions:   submissionSystem,
		Stats:         statsSystem,
		Notifications: notificationSystem,
		Verifier:      verifier,
	}, nil
}
