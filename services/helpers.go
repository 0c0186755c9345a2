package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/common/logger"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID primitive.ObjectID
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }

func parseID(id, what string) (primitive.ObjectID, *apperrors.Error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid " + what + " id")
	}
	return oid, nil
}

// internalError logs a store failure and hides it behind a generic 500.
func internalError(ctx context.Context, log *zap.Logger, msg string, err error) *apperrors.Error {
	log.Error(msg, zap.Error(err), zap.String("request_id", logger.RequestID(ctx)))
	return apperrors.Internal(err)
}

func isNotFound(err error) bool  { return errors.Is(err, repository.ErrNotFound) }
func isDuplicate(err error) bool { return errors.Is(err, repository.ErrDuplicateKey) }

var slugTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lower-cases s, strips diacritics and joins the remaining words with dashes.
func Slugify(s string) string {
	folded, _, err := transform.String(slugTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// recordCount bumps a counter after the operation committed; failures only reach the debug log.
func recordCount(ctx context.Context, metrics aws_pkg.MetricsRecorder, log *zap.Logger, metric string) {
	if metrics == nil {
		return
	}
	if err := metrics.RecordCount(context.WithoutCancel(ctx), metric, nil); err != nil {
		log.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
