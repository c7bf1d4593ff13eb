// Package secrets reads secret values from AWS Secrets Manager.
//
// GetSecret is the one-shot form: it builds a client for the region from
// the default AWS credential chain and returns the secret's string value,
// falling back to the binary value decoded as UTF-8.
//
//	token, err := secrets.GetSecret(ctx, "gucfop/influx-token", "")
//
// Long-lived callers build a Client once with New. Client satisfies
// config.SecretGetter, so it can resolve credentials referenced from
// config.yaml.
package secrets
