// Package config loads rangedom configuration.
//
// Configuration lives at the project root in rangedom.json, or in
// rangedom.yaml / rangedom.yml. When more than one exists the JSON file
// wins. A missing file is not an error: Load returns the defaults.
//
// # Configuration File Structure
//
//	{
//	  "engine": {
//	    "shrinkPolicy": "delete"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "rangedom"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000
//	  },
//	  "snapshot": {
//	    "bucket": "my-bucket",
//	    "prefix": "snapshots/"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := vdom.NewRenderer(doc, cfg.EngineOptions()...)
package config
