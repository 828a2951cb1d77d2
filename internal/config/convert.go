package config

import (
	"github.com/danmuck/txdecode/internal/protocol/txn"
	"github.com/rs/zerolog"
)

// DecoderOptions converts the file settings into transaction decoder options.
func (c DecoderConfig) DecoderOptions(logger *zerolog.Logger, observer txn.Observer) (txn.Options, error) {
	format, err := c.ProtocolFormat()
	if err != nil {
		return txn.Options{}, err
	}
	return txn.Options{
		Format:   format,
		MaxBytes: c.MaxTxnBytes,
		Logger:   logger,
		Observer: observer,
	}, nil
}

// NewDecoder is DecoderOptions followed by txn.NewDecoder.
func (c DecoderConfig) NewDecoder(logger *zerolog.Logger, observer txn.Observer) (*txn.Decoder, error) {
	opts, err := c.DecoderOptions(logger, observer)
	if err != nil {
		return nil, err
	}
	return txn.NewDecoder(opts)
}
