package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cxd309/gotms/internal/scenario"
	"github.com/cxd309/gotms/pkg/engine"
	"github.com/cxd309/gotms/pkg/geoexport"
	"github.com/cxd309/gotms/pkg/osmimport"
	"github.com/cxd309/gotms/pkg/results"
)

const geojsonLong = "Export a scenario's located nodes and edges as GeoJSON. With --result, services\n" +
	"are drawn at their positions in the last logged timestep at or before --at."

func (a *app) geojsonCmd() *cobra.Command {
	var (
		out        string
		resultPath string
		at         float64
	)
	cmd := &cobra.Command{
		Use:   "geojson <scenario.yaml>",
		Short: "Export a scenario's located nodes and edges as GeoJSON",
		Long:  geojsonLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, net, err := a.loadNetwork(args[0])
			if err != nil {
				return err
			}
			if resultPath == "" {
				return writeJSON(out, cmd.OutOrStdout(), geoexport.Network(net.Graph()))
			}
			log, err := readLog(resultPath)
			if err != nil {
				return err
			}
			row, ok := geoexport.RowAt(log, at)
			if !ok {
				return fmt.Errorf("%s: result has no output rows", resultPath)
			}
			logrus.WithFields(logrus.Fields{"timestamp": row.Timestamp, "services": len(row.ServiceLogs)}).
				Debug("snapshot selected")
			return writeJSON(out, cmd.OutOrStdout(), geoexport.Snapshot(net.Graph(), row))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write GeoJSON here instead of stdout (.gz compresses)")
	cmd.Flags().StringVar(&resultPath, "result", "", "Result document written by tms run (.gz accepted)")
	cmd.Flags().Float64Var(&at, "at", 0, "Simulation time in seconds of the snapshot")
	return cmd
}

func readLog(path string) (engine.Log, error) {
	rc, err := openInput(path)
	if err != nil {
		return engine.Log{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return engine.Log{}, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := engine.Decode(data)
	if err != nil {
		return engine.Log{}, fmt.Errorf("%s: %w", path, err)
	}
	log, err := results.New(doc).Log()
	if err != nil {
		return engine.Log{}, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

func (a *app) importOSMCmd() *cobra.Command {
	var (
		out     string
		tagKey  string
		values  []string
		runTime float64
	)
	cmd := &cobra.Command{
		Use:   "import-osm <extract.osm>",
		Short: "Convert an OpenStreetMap XML extract into a scenario skeleton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := osmimport.Config{TagKey: tagKey, Values: values}
			net, err := osmimport.ImportFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			logrus.Infof("Imported %d nodes and %d edges from %s", net.NumNodes(), net.NumEdges(), args[0])

			w, err := createOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			werr := scenario.FromGraph(net.Graph(), runTime).Write(w)
			cerr := w.Close()
			if werr != nil {
				return werr
			}
			return cerr
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the scenario here instead of stdout")
	cmd.Flags().StringVar(&tagKey, "tag", "highway", "Way tag selecting the imported ways (e.g. railway)")
	cmd.Flags().StringSliceVar(&values, "values", nil, "Accepted values of --tag (default: any)")
	cmd.Flags().Float64Var(&runTime, "run-time", 3600, "Run time written into the scenario, in seconds")
	return cmd
}
