package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/localstt/stt"
)

// chunkSize splits the file into the chunks a streaming capture would send.
const chunkSize = 64 * 1024

type transcribeOptions struct {
	language    string
	keepRunning bool
}

func newTranscribeCmd(app *appState) *cobra.Command {
	opts := &transcribeOptions{}
	cmd := &cobra.Command{
		Use:   "transcribe <file.wav>",
		Short: "Transcribe a WAV file, starting the inference server if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTranscribe(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.language, "language", "", "Language code (default: stt.language from config)")
	cmd.Flags().BoolVar(&opts.keepRunning, "keep-running", false, "Leave the inference server running after the transcript is printed")
	return cmd
}

func (a *appState) runTranscribe(ctx context.Context, path string, opts *transcribeOptions) error {
	audio, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("audio file %s is empty", path)
	}

	return a.runTask(ctx, func(ctx context.Context, rt *runtime) error {
		prov := rt.provider()
		if opts.keepRunning {
			defer func() {
				if id := prov.Lifecycle().Detach(); id != "" {
					fmt.Fprintf(a.errOut, "inference server left running in container %s\n", id)
				}
			}()
		}

		text, err := transcribeFile(ctx, prov, audio, opts.language)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, text)
		return nil
	})
}

// transcribeFile feeds audio through a session in fixed-size chunks.
func transcribeFile(ctx context.Context, prov *stt.Provider, audio []byte, language string) (string, error) {
	session, err := prov.CreateSession(ctx, stt.SessionOptions{Language: language})
	if err != nil {
		return "", err
	}
	defer session.Close()

	for start := 0; start < len(audio); start += chunkSize {
		end := min(start+chunkSize, len(audio))
		if err := session.SendAudio(audio[start:end]); err != nil {
			return "", err
		}
	}
	session.EndAudio()
	return session.WaitForTranscript(ctx, 0)
}
