package image

// Соотношения сторон, которые умеет воркер. Таблица повторена на клиенте,
// чтобы команда из чата могла называть соотношение вместо пикселей.
var aspectRatios = map[string][2]int{
	"1:1":  {640, 640},
	"16:9": {1664, 928},
	"9:16": {928, 1664},
	"4:3":  {1472, 1140},
	"3:4":  {1140, 1472},
	"3:2":  {1584, 1056},
	"2:3":  {1056, 1584},
}

// DefaultAspect — соотношение по умолчанию, как у воркера.
const DefaultAspect = "4:3"

// ResolveAspect возвращает размеры для именованного соотношения сторон.
func ResolveAspect(name string) (width, height int, ok bool) {
	dims, ok := aspectRatios[name]
	if !ok {
		return 0, 0, false
	}
	return dims[0], dims[1], true
}
