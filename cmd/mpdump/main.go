// Command mpdump reads a multipart/form-data body from a file and prints
// the parsed parts as JSON lines, feeding the input through the parser
// in caller-chosen chunk sizes to demonstrate that the result is
// identical regardless of how the bytes are split.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kynetix/multipart"
)

var (
	boundary  string
	chunkSize int
	verbose   bool

	rootCmd = &cobra.Command{
		Use:   "mpdump [file]",
		Short: "parse a multipart/form-data body and dump its parts as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  dump,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&boundary, "boundary", "b", "", "multipart boundary token (required)")
	rootCmd.Flags().IntVarP(&chunkSize, "chunk-size", "c", 4096, "bytes fed to the parser per Parse call")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log state transitions and part sizes")
	rootCmd.MarkFlagRequired("boundary")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type jsonPart struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

func dump(cmd *cobra.Command, args []string) error {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if chunkSize < 1 {
		return fmt.Errorf("chunk-size must be positive")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	p, err := multipart.NewParser([]byte(boundary))
	if err != nil {
		return err
	}
	agg := multipart.NewAggregator(p)

	enc := json.NewEncoder(os.Stdout)

	lastState := p.State()
	partCount := 0
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := p.Parse(data[offset:end]); err != nil {
			return fmt.Errorf("parse at byte %d: %w", offset, err)
		}
		if verbose && p.State() != lastState {
			logrus.WithFields(logrus.Fields{
				"from": lastState,
				"to":   p.State(),
			}).Debug("state transition")
			lastState = p.State()
		}

		for {
			part, err := agg.NextPart()
			if err != nil {
				return err
			}
			if part == nil {
				break
			}
			partCount++
			if verbose {
				logrus.WithFields(logrus.Fields{
					"part": partCount,
					"name": part.Name,
					"size": len(part.Data),
				}).Debug("part parsed")
			}
			if err := enc.Encode(toJSON(part)); err != nil {
				return err
			}
		}
	}

	if p.State() != multipart.StateEnd {
		logrus.Warn("input ended before the close-delimiter was seen")
	}
	return nil
}

func toJSON(part *multipart.Part) jsonPart {
	kind := "field"
	if part.Kind == multipart.PartFile {
		kind = "file"
	}
	return jsonPart{
		Kind:        kind,
		Name:        part.Name,
		Filename:    part.Filename,
		ContentType: part.ContentType,
		Size:        len(part.Data),
	}
}
