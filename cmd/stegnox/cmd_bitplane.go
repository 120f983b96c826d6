package main

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stegnox/pkg/analyzer/image/bitplane"
	"stegnox/pkg/filehandler"
	"stegnox/pkg/raster"
)

var bitplaneFlags struct {
	channel string
	bit     int
	output  string
}

var bitplaneCmd = &cobra.Command{
	Use:   "bitplane <image>",
	Short: "Render one bit plane of a channel as a black and white PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runBitplane,
}

func init() {
	f := bitplaneCmd.Flags()
	f.StringVar(&bitplaneFlags.channel, "channel", "red", "Channel: red, green or blue")
	f.IntVar(&bitplaneFlags.bit, "bit", 0, "Bit position, 0 is the least significant")
	f.StringVarP(&bitplaneFlags.output, "output", "o", "", "Output PNG (default <name>_<channel>_bit<N>.png next to the input)")
}

func parseChannel(s string) (raster.Channel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range raster.AllChannels {
		if c.String() == name || name == c.String()[:1] {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

func runBitplane(_ *cobra.Command, args []string) error {
	c, err := parseChannel(bitplaneFlags.channel)
	if err != nil {
		return err
	}

	img, err := eng.LoadImage(args[0])
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	plane, err := bitplane.Render(img, c, bitplaneFlags.bit)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, plane); err != nil {
		return fmt.Errorf("failed to encode bit plane: %w", err)
	}

	output := bitplaneFlags.output
	if output == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		output = fmt.Sprintf("%s_%s_bit%d.png", base, c, bitplaneFlags.bit)
	}
	if err := filehandler.SaveFile(buf.Bytes(), output); err != nil {
		return err
	}

	printSuccess("Bit %d of the %s channel written to %s", bitplaneFlags.bit, c, output)
	return nil
}
