package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPrecondition  = errors.New("precondition failed")
	ErrAcquisition   = errors.New("acquisition failed")
	ErrNormalization = errors.New("normalization failed")
	ErrAnalysis      = errors.New("analysis failed")
	ErrPersistence   = errors.New("persistence failed")
	ErrExternalTool  = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureMessage derives the human-readable string recorded on a job's terminal
// failed status. It strips the sentinel prefix so operators read the stage
// detail first.
func FailureMessage(err error) string {
	if err == nil {
		return "failed without error detail"
	}
	msg := strings.TrimSpace(err.Error())
	for _, marker := range []error{
		ErrPrecondition,
		ErrAcquisition,
		ErrNormalization,
		ErrAnalysis,
		ErrPersistence,
		ErrExternalTool,
		ErrConfiguration,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return marker.Error() + ": " + strings.TrimSpace(strings.TrimPrefix(msg, prefix))
		}
	}
	if msg == "" {
		return "failed without error detail"
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
