package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/network"
)

func (a *app) runCmd() *cobra.Command {
	var (
		out      string
		simID    string
		runTime  float64
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario through tms-engine and write the result document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, net, err := a.loadNetwork(args[0])
			if err != nil {
				return err
			}
			if validate {
				if err := net.Validate(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("run-time") {
				sc.Simulation.RunTime = runTime
			}
			if simID == "" {
				simID = sc.Simulation.ID
			}
			var opts []network.RunOption
			if simID != "" {
				opts = append(opts, network.WithSimulationID(simID))
			}

			ctx, cancel := a.runContext(cmd.Context())
			defer cancel()
			logrus.Infof("Starting simulation: run_time=%vs, time_step=%vs, services=%d",
				sc.Simulation.RunTime, sc.TimeStep(), len(sc.Services))
			start := time.Now()
			res, err := net.Run(ctx, sc.Simulation.RunTime, sc.TimeStep(), opts...)
			if err != nil {
				return err
			}
			logrus.Infof("Simulation complete in %v: %s", time.Since(start), res)
			return writeJSON(out, cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result here instead of stdout (.gz compresses)")
	cmd.Flags().StringVar(&simID, "id", "", "Simulation id (default: the scenario's id, else a random UUID)")
	cmd.Flags().Float64Var(&runTime, "run-time", 0, "Override the scenario run time in seconds")
	cmd.Flags().BoolVar(&validate, "validate", false, "Check node references and vehicle parameters before running")
	return cmd
}

func (a *app) requestCmd() *cobra.Command {
	var (
		out   string
		simID string
	)
	cmd := &cobra.Command{
		Use:   "request <scenario.yaml>",
		Short: "Print the engine request document for a scenario without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, net, err := a.loadNetwork(args[0])
			if err != nil {
				return err
			}
			if simID == "" {
				simID = sc.Simulation.ID
			}
			req, err := net.BuildRequest(simID, sc.Simulation.RunTime, sc.TimeStep())
			if err != nil {
				return err
			}
			return writeJSON(out, cmd.OutOrStdout(), req)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the request here instead of stdout (.gz compresses)")
	cmd.Flags().StringVar(&simID, "id", "", "Simulation id (default: the scenario's id)")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario for problems the engine would reject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, net, err := a.loadNetwork(args[0])
			if err != nil {
				return err
			}
			if err := net.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes, %d edges, %d services, vehicles %v\n",
				net.NumNodes(), net.NumEdges(), len(sc.Services), sc.VehicleNames())
			return nil
		},
	}
}

func (a *app) whichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Print the tms-engine binary that run would execute",
		Long:  whichLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Resolver()
			path, err := r.Resolve()
			if err != nil {
				return err
			}
			logrus.WithField("bundled_name", r.Name()).Debug("engine resolved")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

var whichLong = "Print the tms-engine binary that run would execute. The --engine path is used as-is;\n" +
	"otherwise " + (&engine.Resolver{}).Name() + " is looked up in each bundle dir, then tms-engine on $PATH."
