package model

const moscowPayload = `{
  "coord": {"lon": 37.6156, "lat": 55.7522},
  "weather": [{"id": 804, "main": "Clouds", "description": "overcast clouds", "icon": "04n"}],
  "base": "stations",
  "main": {"temp": 3.8, "feels_like": 0.5, "temp_min": 2.9, "temp_max": 4.4, "pressure": 1025,
           "humidity": 81, "sea_level": 1025.0, "grnd_level": 1005},
  "visibility": 10000,
  "wind": {"speed": 3.24, "deg": 230, "gust": 8.1},
  "clouds": {"all": 100},
  "dt": 1700000000,
  "sys": {"type": 2, "id": 2000314, "country": "RU", "sunrise": 1699937283, "sunset": 1699967354},
  "timezone": 10800,
  "id": 524901,
  "name": "Moscow",
  "cod": 200
}`
