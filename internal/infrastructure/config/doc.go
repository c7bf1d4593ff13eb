// Package config loads the gucfop YAML configuration.
//
// Values are resolved in layers: built-in defaults, then the YAML file,
// then GUCFOP_* environment variables. Validate reports every problem in
// one error rather than stopping at the first.
//
// Credentials belong in the environment (GUCFOP_INFLUXDB_TOKEN,
// GUCFOP_MQTT_PASSWORD) or in AWS Secrets Manager, referenced by name
// through influxdb.token_secret and fetched by ResolveSecrets.
//
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.ResolveSecrets(ctx, secretsClient); err != nil {
//	    return err
//	}
package config
