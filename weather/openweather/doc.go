// Package openweather implements the weather service against the
// OpenWeatherMap current-weather API.
package openweather
