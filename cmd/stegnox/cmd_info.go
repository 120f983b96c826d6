package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stegnox/pkg/bitstream"
	"stegnox/pkg/embedder"
	"stegnox/pkg/engine"
	"stegnox/pkg/filehandler"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show format, size and payload capacity of an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	img, err := eng.LoadImage(path)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	size, err := filehandler.GetFileSize(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Format:    %s\n", img.Format)
	fmt.Fprintf(w, "Mode:      %s\n", img.Mode)
	fmt.Fprintf(w, "Size:      %dx%d\n", img.Width(), img.Height())
	fmt.Fprintf(w, "File size: %d bytes\n", size)

	fmt.Fprintln(w, "Capacity:")
	capacity := eng.Capacity(img)
	for _, m := range engine.AllEmbedMethods() {
		bits := capacity[m]
		if bits == embedder.Unbounded {
			fmt.Fprintf(w, "  %-9s unbounded\n", m)
			continue
		}
		fmt.Fprintf(w, "  %-9s %d bits (%d bytes of text)\n", m, bits, payloadBytes(bits))
	}

	if len(img.Metadata) > 0 {
		fmt.Fprintf(w, "Metadata:  %d text entries\n", len(img.Metadata))
	}
	if len(img.EXIF) > 0 {
		fmt.Fprintf(w, "EXIF:      %d tags\n", len(img.EXIF))
	}
	return nil
}

// payloadBytes is how much text fits once the terminator is accounted for
func payloadBytes(bits int) int {
	n := bits/8 - len(bitstream.Terminator)
	if n < 0 {
		return 0
	}
	return n
}
