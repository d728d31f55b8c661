package logger

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// prefixEncoder writes a fixed prefix (usually the run id) in front of every console line.
type prefixEncoder struct {
	zapcore.Encoder

	pool   buffer.Pool
	prefix string
}

func newPrefixEncoder(enc zapcore.Encoder, prefix string) zapcore.Encoder {
	return &prefixEncoder{
		Encoder: enc,
		pool:    buffer.NewPool(),
		prefix:  prefix,
	}
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{
		Encoder: e.Encoder.Clone(),
		pool:    e.pool,
		prefix:  e.prefix,
	}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := e.pool.Get()

	buf.AppendString("[")
	buf.AppendString(e.prefix)
	buf.AppendString("] ")

	consoleBuf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		buf.Free()
		return nil, err
	}
	defer consoleBuf.Free()

	if _, err = buf.Write(consoleBuf.Bytes()); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}
