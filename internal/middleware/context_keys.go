package middleware

import "context"

// subjectKey is the key used to store the authenticated caller's subject claim.
const subjectKey = contextKey("subject")

// GetSubjectFromCtx retrieves the authenticated subject from the request context.
// It returns the subject and a boolean indicating if it was found.
func GetSubjectFromCtx(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}
