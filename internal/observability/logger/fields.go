package logger

import (
	"time"

	"go.uber.org/zap"
)

// HTTP fields.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// Domain fields.

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func Email(v string) zap.Field { return zap.String("email", v) }

func Role(v string) zap.Field { return zap.String("role", v) }

func AppointmentID(v string) zap.Field { return zap.String("appointment_id", v) }

func FormID(v string) zap.Field { return zap.String("form_id", v) }

// System fields.

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Count(v int) zap.Field { return zap.Int("count", v) }

// Generic passthroughs so callers rarely need to import zap directly.

func String(k, v string) zap.Field { return zap.String(k, v) }

func Int(k string, v int) zap.Field { return zap.Int(k, v) }

func Bool(k string, v bool) zap.Field { return zap.Bool(k, v) }
