package appidentityassets

import _ "embed"

// YAML is the embedded copy of `.fulmen/app.yaml` so a standalone binary can
// resolve its identity without the repository checkout.
//
//go:embed app.yaml
var YAML []byte
