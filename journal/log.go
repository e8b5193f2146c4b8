package journal

import "go.uber.org/zap"

// zapError returns a single-field slice naming err, or nil if err is
// nil — a small helper to keep call sites like Close's final log line
// from branching on whether there's something to report.
func zapError(err error) []zap.Field {
	if err == nil {
		return nil
	}
	return []zap.Field{zap.Error(err)}
}
