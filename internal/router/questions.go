package router

var questions = []string{
	"Ada asap rokok di sini?",
	"Bagaimana situasi asap rokok?",
	"Apakah terdeteksi asap rokok?",
	"Ada bahaya asap rokok?",
	"Status umum di sekitar?",
	"Apa status cahaya di toilet?",
	"Bagaimana kondisi cahaya di sini?",
	"Apakah lampu menyala?",
	"Cahaya di sini bagaimana?",
	"Bagaimana situasi pencahayaan?",
	"Apa status terbaru tentang keadaan?",
	"Bagaimana kondisi sekarang?",
	"Apa yang terdeteksi di sini?",
	"Apakah ada bahaya yang perlu diwaspadai?",
	"Ada indikasi asap atau gelap?",
	"Adakah perubahan pada suhu, kelembapan, atau cahaya?",
	"Apa kondisi suhu di sini?",
	"Apakah suhu terlalu panas atau dingin?",
	"Bagaimana kenyamanan suhu sekarang?",
}

// Questions 仪表盘预设问题
func Questions() []string {
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}
