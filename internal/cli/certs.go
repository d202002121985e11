package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homefinder/loancalc/pkg/tlsutil"
)

func certsCmd(a *app) *cobra.Command {
	var (
		hosts    []string
		outDir   string
		validFor time.Duration
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a self-signed TLS certificate for the gRPC server",
		Long: "Generate a self-signed TLS certificate for local development. Point\n" +
			"GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE at the written files.",
		RunE: func(*cobra.Command, []string) error {
			certPath, keyPath, err := tlsutil.WriteSelfSigned(hosts, outDir, validFor)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "GRPC_TLS_CERT_FILE=%s\nGRPC_TLS_KEY_FILE=%s\n", certPath, keyPath)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS names or IPs the certificate covers")
	cmd.Flags().StringVar(&outDir, "out", "certs", "output directory")
	cmd.Flags().DurationVar(&validFor, "valid-for", 365*24*time.Hour, "certificate lifetime")
	return cmd
}
