package main

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fleshka4/stableswap-estimator/internal/amount"
	"github.com/fleshka4/stableswap-estimator/pkg/stableswap"
)

const (
	flagAmountIn    = "amount-in"
	flagReserveIn   = "reserve-in"
	flagReserveOut  = "reserve-out"
	flagAmplifier   = "amplifier"
	flagFee         = "fee"
	flagDecimals    = "decimals"
	flagDecimalsOut = "decimals-out"
	flagVerbose     = "verbose"
	flagSimulate    = "simulate"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against a two-asset StableSwap pool",
		Long: `Quote prints the amount of the output asset released for --amount-in of the
input asset, given the pool reserves, amplifier and fee in pips.

All amounts are integers in the smallest unit of their asset.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runQuote,
	}

	addPoolFlags(cmd)
	cmd.Flags().String(flagAmountIn, "", "amount of the input asset")
	cmd.Flags().Uint64(flagFee, stableswap.DefaultFee, "trading fee in pips (at most 100)")
	cmd.Flags().Int32(flagDecimals, 0, "decimals of the input token, used to print human-readable amounts")
	cmd.Flags().Int32(flagDecimalsOut, 0, "decimals of the output token (defaults to --decimals)")
	cmd.Flags().BoolP(flagVerbose, "v", false, "print the solver breakdown")
	cmd.Flags().Bool(flagSimulate, false, "print the pool reserves after the swap")
	_ = cmd.MarkFlagRequired(flagAmountIn)

	cmd.AddCommand(newInvariantCmd())

	return cmd
}

func newInvariantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invariant",
		Short: "Print the pool invariant D",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reserveIn, reserveOut, amplifier, err := poolFlags(cmd)
			if err != nil {
				return err
			}

			d, err := stableswap.SolveD(reserveIn, reserveOut, amplifier)
			if err != nil {
				return errors.Wrap(err, "stableswap.SolveD")
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), d); err != nil {
				return errors.Wrap(err, "fmt.Fprintln")
			}
			return nil
		},
	}

	addPoolFlags(cmd)

	return cmd
}

func addPoolFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagReserveIn, "", "pool reserve of the input asset")
	cmd.Flags().String(flagReserveOut, "", "pool reserve of the output asset")
	cmd.Flags().String(flagAmplifier, "", "pool amplification coefficient")
	_ = cmd.MarkFlagRequired(flagReserveIn)
	_ = cmd.MarkFlagRequired(flagReserveOut)
	_ = cmd.MarkFlagRequired(flagAmplifier)
}

func poolFlags(cmd *cobra.Command) (reserveIn, reserveOut, amplifier *big.Int, err error) {
	if reserveIn, err = intFlag(cmd, flagReserveIn); err != nil {
		return nil, nil, nil, err
	}
	if reserveOut, err = intFlag(cmd, flagReserveOut); err != nil {
		return nil, nil, nil, err
	}
	if amplifier, err = intFlag(cmd, flagAmplifier); err != nil {
		return nil, nil, nil, err
	}
	return reserveIn, reserveOut, amplifier, nil
}

func intFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, errors.Wrap(err, "cmd.Flags().GetString")
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.Errorf("--%s must be a base-10 integer, got %q", name, raw)
	}
	return v, nil
}

type quoteOptions struct {
	fee         uint64
	decimalsIn  int32
	decimalsOut int32
	human       bool
	verbose     bool
	simulate    bool
}

func quoteFlags(cmd *cobra.Command) (quoteOptions, error) {
	flags := cmd.Flags()

	var (
		opts quoteOptions
		err  error
	)
	if opts.fee, err = flags.GetUint64(flagFee); err != nil {
		return opts, errors.Wrap(err, "flags.GetUint64")
	}
	if opts.decimalsIn, err = flags.GetInt32(flagDecimals); err != nil {
		return opts, errors.Wrap(err, "flags.GetInt32")
	}
	opts.decimalsOut = opts.decimalsIn
	if flags.Changed(flagDecimalsOut) {
		if opts.decimalsOut, err = flags.GetInt32(flagDecimalsOut); err != nil {
			return opts, errors.Wrap(err, "flags.GetInt32")
		}
	}
	if opts.verbose, err = flags.GetBool(flagVerbose); err != nil {
		return opts, errors.Wrap(err, "flags.GetBool")
	}
	if opts.simulate, err = flags.GetBool(flagSimulate); err != nil {
		return opts, errors.Wrap(err, "flags.GetBool")
	}
	opts.human = flags.Changed(flagDecimals) || flags.Changed(flagDecimalsOut)

	return opts, nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	reserveIn, reserveOut, amplifier, err := poolFlags(cmd)
	if err != nil {
		return err
	}
	amountIn, err := intFlag(cmd, flagAmountIn)
	if err != nil {
		return err
	}
	opts, err := quoteFlags(cmd)
	if err != nil {
		return err
	}

	pool := stableswap.NewPool(reserveIn, reserveOut, amplifier, opts.fee)
	q, err := pool.Quote(amountIn, true)
	if err != nil {
		return errors.Wrap(err, "pool.Quote")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, q.AmountOut)
	if opts.human {
		printHuman(&buf, amountIn, q, opts.decimalsIn, opts.decimalsOut)
	}
	if opts.verbose {
		printBreakdown(&buf, q)
	}
	if opts.simulate {
		next := pool.Settle(amountIn, q.AmountOut, true)
		fmt.Fprintf(&buf, "reserve_in_after:      %s\n", next.Reserve0)
		fmt.Fprintf(&buf, "reserve_out_after:     %s\n", next.Reserve1)
	}

	if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
		return errors.Wrap(err, "buf.WriteTo")
	}
	return nil
}

func printHuman(w io.Writer, amountIn *big.Int, q *stableswap.Quote, decimalsIn, decimalsOut int32) {
	rate := amount.Rate(amountIn, decimalsIn, q.AmountOut, decimalsOut)
	fmt.Fprintf(w, "amount_in:             %s\n", amount.Format(amountIn, decimalsIn))
	fmt.Fprintf(w, "amount_out:            %s\n", amount.Format(q.AmountOut, decimalsOut))
	fmt.Fprintf(w, "rate:                  %s\n", rate)
	fmt.Fprintf(w, "slippage_pct:          %s\n", amount.Slippage(rate))
}

func printBreakdown(w io.Writer, q *stableswap.Quote) {
	fmt.Fprintf(w, "invariant:             %s (%d iterations)\n", q.Invariant, q.InvariantIterations)
	fmt.Fprintf(w, "counter_reserve:       %s (%d iterations)\n", q.CounterReserve, q.ReserveIterations)
	fmt.Fprintf(w, "amount_out_before_fee: %s\n", q.AmountOutBeforeFee)
	fmt.Fprintf(w, "fee_amount:            %s\n", q.FeeAmount)
}
