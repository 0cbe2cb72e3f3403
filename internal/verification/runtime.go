package verification

import (
	"log/slog"
	"time"

	"github.com/yephonekyaw/sit-cert-server/internal/certificates"
	"github.com/yephonekyaw/sit-cert-server/internal/dashboard"
	"github.com/yephonekyaw/sit-cert-server/internal/extraction"
	"github.com/yephonekyaw/sit-cert-server/internal/notifications"
	"github.com/yephonekyaw/sit-cert-server/internal/retrieval"
	"github.com/yephonekyaw/sit-cert-server/internal/submissions"
	"github.com/yephonekyaw/sit-cert-server/pkg/storage"
)

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed by higher-level composition code from Infrastructure and
// Domain systems and holds no per-run state.
type Runtime struct {
	Engine      extraction.Engine
	Extractor   certificates.FieldExtractor
	Validator   *certificates.Validator
	Retriever   retrieval.Retriever
	Storage     storage.System
	Submissions submissions.System
	Stats       dashboard.System
	Notifier    notifications.System
	Guard       Guard
	Logger      *slog.Logger

	RunTimeout    time.Duration
	GuardTTL      time.Duration
	ArchivePrefix string
}
