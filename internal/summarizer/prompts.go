package summarizer

// Prompt templates sent to the generation service. These are the only two
// prompt shapes the pipeline uses.

const chunkPromptTemplate = `Aşağıda bir ürüne ait kullanıcı yorumları bulunmaktadır.
Bu yorumlara dayanarak kısa ve objektif bir özet çıkar.

Şu konulara değin:
- Genel değerlendirme
- Olumlu yönler
- Olumsuz yönler
- Fiyat / performans
- Paketleme kalitesi
- Kargo hızı

Yorumlar:
%s

Özet:`

const finalPromptTemplate = `Aşağıda bir ürün hakkında farklı yorum gruplarından çıkarılmış özetler var.
Bu özetleri birleştirerek tek bir kapsamlı değerlendirme oluştur.

SADECE aşağıdaki JSON formatında yanıt ver, başka hiçbir şey yazma:
{
  "overall_summary": "...",
  "positive_aspects": ["...", "..."],
  "negative_aspects": ["...", "..."],
  "price_performance": "...",
  "packaging_quality": "...",
  "shipping_speed": "...",
  "sentiment": "Çok Olumlu, Olumlu, Nötr, Olumsuz veya Çok Olumsuz"
}

Özetler:
%s`

// chunkSeparator makes chunk boundaries visible to the model in the
// aggregation prompt.
const chunkSeparator = "\n\n---\n\n"
