// Package client is the Go client for the AI Stats gateway.
//
// [New] returns a [Client]: a [Dispatcher] plus resource namespaces
// (Chat.Completions, Messages, Responses, Images, Audio, Moderations,
// Embeddings, Batches, Files, Models). Every operation funnels through
// [Dispatcher.Do] or [Dispatcher.Stream], which time the call, invoke the
// transport and hand the outcome to the devtools recorder exactly once.
//
// Streaming operations return a [LineStream], a single-pass sequence of the
// raw non-empty lines sent by the gateway. Recognizing [DoneLine] is up to
// the caller; ranging to the end is what records the call:
//
//	stream, err := c.Chat.Completions.Stream(ctx, &client.ChatCompletionsRequest{
//		Model:    "openai/gpt-5-nano",
//		Messages: []client.ChatMessage{client.UserMessage("hi")},
//	})
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//	for line, err := range stream.Iter() {
//		if err != nil {
//			return err
//		}
//		if line != client.DoneLine {
//			fmt.Println(line)
//		}
//	}
//
// Leaving the loop early, or calling Close before the end, releases the
// connection without writing a telemetry entry.
package client
