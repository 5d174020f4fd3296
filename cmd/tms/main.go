// Command tms builds TMS simulation requests from scenario files and runs them
// through the tms-engine binary.
//
//	tms run shuttle.yaml --out result.json.gz
//	tms request shuttle.yaml | tms-engine
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
