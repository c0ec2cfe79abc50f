// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

// HelpText lists the interactive commands as markdown.
const HelpText = `# Available Commands

- ` + "`ask [question]`" + `: Ask a question or start interactive mode
- ` + "`weather in [location]`" + `: Get weather information
- ` + "`time in [location]`" + `: Get current time
- ` + "`write notes about [topic]`" + `: Create a new document
- ` + "`summarize [url]`" + `: Summarize a webpage
- ` + "`info`" + `: Display system information
- ` + "`preferences`" + `: Show user preferences
- ` + "`set_preference [key] [value]`" + `: Set a user preference
- ` + "`search [query]`" + `: Search the web and open the most relevant result
- ` + "`compare [items]`" + `: Compare theories, ideas or arguments side-by-side
- ` + "`define [word]`" + `: Get the definition of a word
- ` + "`brainstorm [topic]`" + `: Generate creative ideas based on a topic
- ` + "`chat [message]`" + `: Chat with the AI assistant
- ` + "`notes`" + `: List documents written so far
- ` + "`help`" + `: Show this help message
- ` + "`exit/quit`" + `: Exit the program
`
