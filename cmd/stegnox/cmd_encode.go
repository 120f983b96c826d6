package main

import (
	"errors"

	"github.com/spf13/cobra"

	"stegnox/pkg/engine"
)

var encodeFlags struct {
	method  string
	message string
	output  string
}

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Hide a text message in an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	f := encodeCmd.Flags()
	f.StringVar(&encodeFlags.method, "method", string(engine.EmbedLSB), "Embedding method: lsb, parity or metadata")
	f.StringVar(&encodeFlags.message, "message", "", "Text to hide (required)")
	f.StringVarP(&encodeFlags.output, "output", "o", "", "Output image path (default <output dir>/<name>_stego.<ext>)")

	_ = encodeCmd.MarkFlagRequired("message")
}

func runEncode(_ *cobra.Command, args []string) error {
	m, err := engine.ParseEmbedMethod(encodeFlags.method)
	if err != nil {
		return err
	}

	printInfo("Embedding %d bytes with %s", len(encodeFlags.message), m)
	res := eng.EmbedFile(args[0], encodeFlags.output, m, encodeFlags.message)
	if !res.Success {
		return errors.New(res.Error)
	}

	printSuccess("%s", res.Message)
	if res.Capacity > 0 {
		printInfo("Used %d of %d bits", res.BitsUsed, res.Capacity)
	}
	if res.MetadataKey != "" {
		printInfo("Stored under metadata key %q", res.MetadataKey)
	}
	return nil
}
