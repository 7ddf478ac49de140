package rod

var Render = render
