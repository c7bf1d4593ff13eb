// Package mongodb provides a document store client bound to one database
// and collection.
//
// It wraps the official MongoDB Go driver. The driver connects lazily, so
// Connect only contacts the server when cfg.Verbose asks for a ping;
// otherwise the first operation surfaces connectivity errors after the
// server selection timeout.
//
// # Usage
//
//	client, err := mongodb.Connect(ctx, cfg.MongoDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	id, err := client.InsertOne(ctx, bson.M{"name": "Jane Doe"})
//	docs, err := client.Find(ctx, bson.M{"name": "Jane Doe"})
package mongodb
