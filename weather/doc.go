// Package weather exposes current weather conditions as dispatchable
// capabilities, so an LLM can request them as tool calls. The multi-city
// capability demonstrates keyed fan-out: it invokes the single-city
// capability once per city in parallel and joins the results by city name.
package weather
