package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"stegnox/pkg/engine"
	"stegnox/pkg/models"
)

var decodeFlags struct {
	method  string
	verbose bool
}

var decodeCmd = &cobra.Command{
	Use:   "decode <image>",
	Short: "Recover a hidden text message from an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	f := decodeCmd.Flags()
	f.StringVar(&decodeFlags.method, "method", string(engine.EmbedLSB), "Extraction method: lsb, parity or metadata")
	f.BoolVarP(&decodeFlags.verbose, "verbose", "v", false, "Show extraction metadata")
}

// extractionFor maps a carrier to the method that reads it back
var extractionFor = map[engine.EmbedMethod]engine.Method{
	engine.EmbedLSB:      engine.LSBExtraction,
	engine.EmbedParity:   engine.ParityExtraction,
	engine.EmbedMetadata: engine.MetadataExtraction,
}

func runDecode(cmd *cobra.Command, args []string) error {
	carrier, err := engine.ParseEmbedMethod(decodeFlags.method)
	if err != nil {
		return err
	}

	img, err := eng.LoadImage(args[0])
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	res := eng.RunMethod(cmd.Context(), img, extractionFor[carrier])
	if !res.Success {
		return errors.New(res.Error)
	}

	switch res.Status {
	case models.StatusDecoded:
		printSuccess("Hidden message: %s", res.Message)
	case models.StatusUndecodable:
		printWarning("%s", res.Message)
	default:
		printInfo("%s", res.Message)
	}
	if decodeFlags.verbose {
		displayResult(res, true)
	}
	return nil
}
