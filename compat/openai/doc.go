// Package openai lets code written against github.com/sashabaranov/go-openai
// request and response types call the AI Stats gateway.
//
// Every call goes through the wrapped client, so devtools capture and
// observability behave exactly as for the native API:
//
//	c, _ := client.New(key)
//	oa := openai.NewAdapter(c)
//	resp, err := oa.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
//		Model:    "openai/gpt-5-nano",
//		Messages: []goopenai.ChatCompletionMessage{{Role: goopenai.ChatMessageRoleUser, Content: "hi"}},
//	})
package openai
