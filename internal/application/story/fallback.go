package story

import (
	"strings"

	"wondertales-api/internal/application/safety"
	"wondertales-api/internal/domain/entity"
)

// fallbackTemplate 单个主题的模板故事
type fallbackTemplate struct {
	Title string
	Body  string
	Moral string
}

// 模板正文只使用低龄词表内的词，保证通过内容与词汇检查
// 占位符：{names} 全部角色、{lead} 第一个角色、{item1..3} 关键词道具
var fallbackTemplates = map[entity.Topic]fallbackTemplate{
	entity.TopicSpace: {
		Title: "A Space Trip for {lead}",
		Body: "{names} put on shiny suits and climbed into a little rocket. " +
			"{item2} was packed and ready to go. With a happy cheer, the rocket zoomed up into the sky. " +
			"The stars above were sparkling like tiny lamps. {lead} held {item1} and smiled at every planet they passed. " +
			"On a small blue moon they found {item3}, who waved and asked to play. " +
			"They shared space snacks, sang silly songs, and discovered something wonderful about the sky. " +
			"When it was time to go home, everyone hugged and promised to visit again. " +
			"Back on Earth, {names} told their friends all about the big adventure.",
		Moral: "The best adventures are the ones you share with friends.",
	},
	entity.TopicCommunity: {
		Title: "The Big Street Fair",
		Body: "{names} woke up to a bright and sunny day in their town. " +
			"Today was the big street fair, and everyone wanted to help. " +
			"{lead} carried {item1} while the neighbors set up stands full of delicious treats. " +
			"{item2} helped them carry boxes, and {item3} cheered everyone on. " +
			"When a little cart tipped over, {names} rushed to pick up every apple and orange. " +
			"The neighbors clapped and smiled. Soon music played, children danced, and everyone shared the yummy food. " +
			"It was a wonderful day of friendship and fun.",
		Moral: "Helping others makes every day brighter.",
	},
	entity.TopicDragons: {
		Title: "The Gentle Dragon",
		Body: "In a green valley there lived a small and gentle dragon. " +
			"{names} walked up the hill to say hello. The dragon sniffed {item1} and gave a happy puff of warm air. " +
			"Together they played tag among the flowers while {item3} watched and giggled. " +
			"{item2} turned out to be the thing the dragon loved most of all. " +
			"Before the sun went down, the dragon gave everyone a gentle ride over the beautiful valley. " +
			"{names} waved goodbye and promised to come back soon with new games to share.",
		Moral: "Being kind opens the door to new friends.",
	},
	entity.TopicFairies: {
		Title: "The Fairy Garden",
		Body: "Deep in a quiet garden, tiny fairies flew from flower to flower. " +
			"{names} tiptoed in softly and waved hello. The fairies loved {item1} and spread sparkling dust all around. " +
			"{item2} began to glow with a soft golden light, and {item3} danced in a happy circle. " +
			"The fairies showed {names} how they care for every seed and leaf. " +
			"As a thank you gift, everyone got a tiny crown made of petals. " +
			"{names} smiled all the way home, full of joy and new fairy friends.",
		Moral: "Little acts of care can make big magic.",
	},
}

// fallbackExtensions 故事不够长时循环追加的收尾段落
var fallbackExtensions = []string{
	"That night, {lead} could not stop smiling. The day had been full of fun and new friends. " +
		"{lead} drew a picture of the adventure and hung it on the wall. " +
		"There would be even more to explore soon, and {lead} could hardly wait.",
	"Later, {names} told the whole story at dinner. Everyone laughed at the funny parts and clapped at the brave parts. " +
		"It felt so good to share such a happy day. After a warm bath and a soft song, it was time for sweet dreams.",
	"The next morning, the sun peeked through the window. {lead} remembered every moment of the wonderful day. " +
		"There was a new spring in every step and a bright smile for every friend. Kind hearts always find the best adventures.",
	"In the days after, {names} played the same game again and again. Each time it felt brand new. " +
		"They took turns, helped each other, and cheered for every win. Playing fair made every game more fun.",
	"{lead} wrote a little note about the trip and kept it in a special box. " +
		"On rainy days, reading the note brought back every happy moment. Good memories are like warm little suns you can keep.",
	"Soon all the friends in town had heard the story. Some wanted to come along next time, and {names} said yes with a smile. " +
		"The more friends who joined, the more fun they would have. Sharing an adventure makes it twice as sweet.",
}

// BuildFallbackStory 构造模板故事，保证永远成功
// 正文不足目标下限时循环追加收尾段落，只加不删
func BuildFallbackStory(req *entity.StoryRequest, filter *safety.Filter) *entity.GeneratedStory {
	tpl, ok := fallbackTemplates[req.Topic]
	if !ok {
		tpl = fallbackTemplates[entity.TopicCommunity]
	}

	names := make([]string, 0, len(req.Characters))
	for _, c := range req.Characters {
		names = append(names, strings.TrimSpace(c.Name))
	}
	lead := "our hero"
	if len(names) > 0 {
		lead = names[0]
	}

	items, extras := fallbackItems(req.Keywords, filter)

	replacer := strings.NewReplacer(
		"{names}", joinNames(names),
		"{lead}", lead,
		"{item1}", items[0],
		"{item2}", items[1],
		"{item3}", items[2],
	)

	title := replacer.Replace(tpl.Title)
	body := replacer.Replace(tpl.Body)

	// 第四、五个关键词没有模板占位符，补一句织入正文
	if len(extras) > 0 {
		body += " They also found " + joinNames(extras) + " along the way, and that made the day even more fun."
	}

	minWords, _ := req.TargetWordCountRange()
	for i := 0; entity.CountWords(body) < minWords; i++ {
		body += "\n\n" + replacer.Replace(fallbackExtensions[i%len(fallbackExtensions)])
	}

	return entity.NewGeneratedStory(title, body, tpl.Moral, req)
}

// fallbackItems 从关键词中挑选可进入模板的道具
// 不安全或词汇超纲的关键词用默认道具顶替；
// 前三个合格关键词占道具槽位，其余作为附加元素返回
func fallbackItems(keywords []string, filter *safety.Filter) ([3]string, []string) {
	items := defaultItems
	slot := 0
	var extras []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if len(filter.FilterInappropriateKeywords([]string{kw})) == 0 {
			continue
		}
		if !filter.ValidateAgeAppropriateVocabulary(kw) {
			continue
		}
		if slot < 3 {
			items[slot] = strings.ToLower(kw)
			slot++
			continue
		}
		extras = append(extras, strings.ToLower(kw))
	}
	return items, extras
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "our hero"
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
