// Package stt is a local speech-to-text provider backed by a containerized
// inference server.
//
// A Provider starts the server on first use through a workload.Manager,
// polls its health endpoint until it answers, and forwards audio to it over
// HTTP. Concurrent callers that find the server down share one start
// operation. Audio is collected per utterance in a Session and sent as a
// single WAV payload once the caller ends the audio.
//
//	p, err := stt.NewProvider(stt.Config{Model: "small"}, manager, stt.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := p.ValidateConfig(); err != nil {
//	    return err
//	}
//	defer p.Shutdown(context.Background())
//
//	text, err := p.TranscribeOnce(ctx, wav, stt.SessionOptions{})
package stt
