// Package anthropic lets code written against
// github.com/liushuangls/go-anthropic/v2 message types call the AI Stats
// gateway's /messages endpoint through a client.Client.
package anthropic
