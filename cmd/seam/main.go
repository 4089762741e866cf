// Package main provides the Seam CLI.
package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/seam-ml/seam/backend/webgpu"
	"github.com/seam-ml/seam/ext"
	internalwebgpu "github.com/seam-ml/seam/internal/backend/webgpu"
	"github.com/seam-ml/seam/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if err := NewCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seam",
		Short:         "Custom GPU kernel extensions for Go tensor programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.AddCommand(
		NewAdaptersCmd(),
		NewRunCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// NewVersionCmd reports the CLI version.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Seam %s\n", version)
		},
	}
}

// NewAdaptersCmd lists the GPU adapters WebGPU can see.
func NewAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List available GPU adapters",
		RunE:  adaptersHandler,
	}
}

func adaptersHandler(cmd *cobra.Command, args []string) error {
	infos, err := internalwebgpu.ListAdapters()
	if err != nil {
		return err
	}

	var data [][]string
	for _, info := range infos {
		data = append(data, []string{
			info.Device,
			info.Vendor,
			fmt.Sprintf("%v", info.AdapterType),
			fmt.Sprintf("%v", info.BackendType),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"NAME", "VENDOR", "TYPE", "BACKEND"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// NewRunCmd dispatches the element-wise addition kernel on the GPU.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the add_tensors kernel on two sample tensors",
		RunE:  runHandler,
	}

	cmd.Flags().String("kernel", "kernels/add.wgsl", "Path to the WGSL kernel source")
	cmd.Flags().Int("size", 6, "Number of elements per input tensor")

	return cmd
}

func runHandler(cmd *cobra.Command, args []string) error {
	kernelPath, err := cmd.Flags().GetString("kernel")
	if err != nil {
		return err
	}
	size, err := cmd.Flags().GetInt("size")
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("size must be positive, got %d", size)
	}

	gpu, err := webgpu.New()
	if err != nil {
		return err
	}
	defer gpu.Release()

	fmt.Printf("Using %s\n", gpu.Name())

	a, err := tensor.NewRaw(tensor.Shape{size}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return err
	}
	b, err := tensor.NewRaw(tensor.Shape{size}, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return err
	}
	aData := a.AsFloat32()
	bData := b.AsFloat32()
	for i := 0; i < size; i++ {
		aData[i] = float32(i + 1)
		bData[i] = float32((i + 1) * 10)
	}

	registry := ext.NewRegistry()
	registry.RegisterAdd(ext.KernelSource{Path: kernelPath})

	outputs, err := registry.Execute(&ext.Context{GPU: gpu}, ext.AddOpName,
		[]*tensor.RawTensor{a, b})
	if err != nil {
		return err
	}
	result := outputs[0]

	fmt.Printf("a      = %v\n", aData)
	fmt.Printf("b      = %v\n", bData)
	fmt.Printf("a + b  = %v\n", result.AsFloat32())
	fmt.Printf("device = %v\n", result.Device())

	stats := gpu.MemoryStats()
	fmt.Printf("\nGPU Memory:\n")
	fmt.Printf("  Total allocated: %d bytes\n", stats.TotalAllocatedBytes)
	fmt.Printf("  Peak memory: %d bytes\n", stats.PeakMemoryBytes)
	fmt.Printf("  Active buffers: %d\n", stats.ActiveBuffers)
	fmt.Printf("  Pool hits: %d, misses: %d\n", stats.PoolHits, stats.PoolMisses)

	return nil
}
